package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
)

// SubChannelOffer is sent by the initiator to propose splicing a contract
// into an existing channel. Besides the contract terms it carries the base
// points the offerer will use for the split and buffer transactions and for
// the channel that continues next to the contract.
type SubChannelOffer struct {
	// ChannelID identifies the channel the contract is spliced into.
	ChannelID ChannelID

	// RevocationBasepoint is the base point the offerer uses for
	// revocation of split transactions.
	RevocationBasepoint *btcec.PublicKey

	// PublishBasepoint is the base point the offerer uses when generating
	// adaptor signatures for revocable transactions.
	PublishBasepoint *btcec.PublicKey

	// OwnBasepoint is the base point the offerer uses in the 2-of-2 output
	// of buffer transactions.
	OwnBasepoint *btcec.PublicKey

	// NextPerSplitPoint is the point for the first split transaction.
	NextPerSplitPoint *btcec.PublicKey

	// ContractInfo holds the terms of the embedded contract.
	ContractInfo ContractInfo

	// ChannelRevocationBasepoint is the revocation base point for the
	// DLC channel.
	ChannelRevocationBasepoint *btcec.PublicKey

	// ChannelPublishBasepoint is the publish base point for the DLC
	// channel.
	ChannelPublishBasepoint *btcec.PublicKey

	// ChannelOwnBasepoint is the own base point for the DLC channel.
	ChannelOwnBasepoint *btcec.PublicKey

	// ChannelFirstPerUpdatePoint is the first per update point of the
	// DLC channel.
	ChannelFirstPerUpdatePoint *btcec.PublicKey

	// PayoutSPK is the script the offerer receives its payout to when the
	// sub-channel closes.
	PayoutSPK PkScript

	// PayoutSerialID orders the payout outputs.
	PayoutSerialID uint64

	// OfferCollateral is the collateral put up by the offerer.
	OfferCollateral btcutil.Amount

	// CetLocktime is the lock time of the contract execution
	// transactions.
	CetLocktime uint32

	// RefundLocktime is the lock time of the refund transaction.
	RefundLocktime uint32

	// CetNSequence is the nSequence value used for the CETs.
	CetNSequence uint32

	// FeeRatePerVByte is the fee rate used for the sub-channel
	// transactions.
	FeeRatePerVByte uint64
}

// A compile time check to ensure SubChannelOffer implements the
// dlcwire.Message interface.
var _ Message = (*SubChannelOffer)(nil)

// Encode serializes the target SubChannelOffer into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (o *SubChannelOffer) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, o.ChannelID); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.RevocationBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.PublishBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.OwnBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.NextPerSplitPoint); err != nil {
		return err
	}

	if err := WriteContractInfo(w, o.ContractInfo); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.ChannelRevocationBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.ChannelPublishBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.ChannelOwnBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, o.ChannelFirstPerUpdatePoint); err != nil {
		return err
	}

	if err := WritePkScript(w, o.PayoutSPK); err != nil {
		return err
	}

	if err := WriteUint64(w, o.PayoutSerialID); err != nil {
		return err
	}

	if err := WriteSatoshi(w, o.OfferCollateral); err != nil {
		return err
	}

	if err := WriteUint32(w, o.CetLocktime); err != nil {
		return err
	}

	if err := WriteUint32(w, o.RefundLocktime); err != nil {
		return err
	}

	if err := WriteUint32(w, o.CetNSequence); err != nil {
		return err
	}

	return WriteUint64(w, o.FeeRatePerVByte)
}

// Decode deserializes the serialized SubChannelOffer stored in the passed
// io.Reader into the target SubChannelOffer using the deserialization rules
// defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (o *SubChannelOffer) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&o.ChannelID,
		&o.RevocationBasepoint,
		&o.PublishBasepoint,
		&o.OwnBasepoint,
		&o.NextPerSplitPoint,
		&o.ContractInfo,
		&o.ChannelRevocationBasepoint,
		&o.ChannelPublishBasepoint,
		&o.ChannelOwnBasepoint,
		&o.ChannelFirstPerUpdatePoint,
		&o.PayoutSPK,
		&o.PayoutSerialID,
		&o.OfferCollateral,
		&o.CetLocktime,
		&o.RefundLocktime,
		&o.CetNSequence,
		&o.FeeRatePerVByte,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelOffer on the wire.
//
// This is part of the dlcwire.Message interface.
func (o *SubChannelOffer) MsgType() MessageType {
	return MsgSubChannelOffer
}

// TargetChanID returns the channel the sub-channel is spliced into.
//
// This is part of the dlcwire.Message interface.
func (o *SubChannelOffer) TargetChanID() ChannelID {
	return o.ChannelID
}
