package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// SubChannelAccept is the responder's answer to a SubChannelOffer. It carries
// the responder's base points along with its signatures for the split
// transaction, the new commitment of the parent channel, and every
// transaction of the embedded contract.
type SubChannelAccept struct {
	// ChannelID identifies the channel the contract is spliced into.
	ChannelID ChannelID

	// RevocationBasepoint is the base point the accepter uses for
	// revocation of split transactions.
	RevocationBasepoint *btcec.PublicKey

	// PublishBasepoint is the base point the accepter uses when
	// generating adaptor signatures for revocable transactions.
	PublishBasepoint *btcec.PublicKey

	// OwnBasepoint is the base point the accepter uses in the 2-of-2
	// output of buffer transactions.
	OwnBasepoint *btcec.PublicKey

	// SplitAdaptorSignature is the accepter's adaptor signature for the
	// split transaction.
	SplitAdaptorSignature AdaptorSig

	// CommitSignature is the accepter's signature for the offerer's new
	// commitment transaction.
	CommitSignature Sig

	// HtlcSignatures holds a signature for each HTLC output of the new
	// commitment transaction.
	HtlcSignatures []Sig

	// FirstPerSplitPoint is the accepter's point for the first split
	// transaction.
	FirstPerSplitPoint *btcec.PublicKey

	// ChannelRevocationBasepoint is the revocation base point for the
	// DLC channel.
	ChannelRevocationBasepoint *btcec.PublicKey

	// ChannelPublishBasepoint is the publish base point for the DLC
	// channel.
	ChannelPublishBasepoint *btcec.PublicKey

	// ChannelOwnBasepoint is the own base point for the DLC channel.
	ChannelOwnBasepoint *btcec.PublicKey

	// CetAdaptorSignatures are the accepter's adaptor signatures for all
	// the contract execution transactions.
	CetAdaptorSignatures CetAdaptorSignatures

	// BufferAdaptorSignature is the accepter's adaptor signature for the
	// buffer transaction.
	BufferAdaptorSignature AdaptorSig

	// RefundSignature is the accepter's signature for the refund
	// transaction.
	RefundSignature Sig

	// LnGlueSignature binds the parent channel's new commitment to the
	// split transaction.
	LnGlueSignature Sig

	// FirstPerUpdatePoint is the accepter's first per update point of the
	// DLC channel.
	FirstPerUpdatePoint *btcec.PublicKey

	// PayoutSPK is the script the accepter receives its payout to.
	PayoutSPK PkScript

	// PayoutSerialID orders the payout outputs.
	PayoutSerialID uint64
}

// A compile time check to ensure SubChannelAccept implements the
// dlcwire.Message interface.
var _ Message = (*SubChannelAccept)(nil)

// Encode serializes the target SubChannelAccept into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (a *SubChannelAccept) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, a.ChannelID); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.RevocationBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.PublishBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.OwnBasepoint); err != nil {
		return err
	}

	if err := WriteAdaptorSig(w, a.SplitAdaptorSignature); err != nil {
		return err
	}

	if err := WriteSig(w, a.CommitSignature); err != nil {
		return err
	}

	if err := WriteSigs(w, a.HtlcSignatures); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.FirstPerSplitPoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.ChannelRevocationBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.ChannelPublishBasepoint); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.ChannelOwnBasepoint); err != nil {
		return err
	}

	if err := WriteCetAdaptorSigs(w, a.CetAdaptorSignatures); err != nil {
		return err
	}

	if err := WriteAdaptorSig(w, a.BufferAdaptorSignature); err != nil {
		return err
	}

	if err := WriteSig(w, a.RefundSignature); err != nil {
		return err
	}

	if err := WriteSig(w, a.LnGlueSignature); err != nil {
		return err
	}

	if err := WritePublicKey(w, a.FirstPerUpdatePoint); err != nil {
		return err
	}

	if err := WritePkScript(w, a.PayoutSPK); err != nil {
		return err
	}

	return WriteUint64(w, a.PayoutSerialID)
}

// Decode deserializes the serialized SubChannelAccept stored in the passed
// io.Reader into the target SubChannelAccept using the deserialization rules
// defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (a *SubChannelAccept) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&a.ChannelID,
		&a.RevocationBasepoint,
		&a.PublishBasepoint,
		&a.OwnBasepoint,
		&a.SplitAdaptorSignature,
		&a.CommitSignature,
		&a.HtlcSignatures,
		&a.FirstPerSplitPoint,
		&a.ChannelRevocationBasepoint,
		&a.ChannelPublishBasepoint,
		&a.ChannelOwnBasepoint,
		&a.CetAdaptorSignatures,
		&a.BufferAdaptorSignature,
		&a.RefundSignature,
		&a.LnGlueSignature,
		&a.FirstPerUpdatePoint,
		&a.PayoutSPK,
		&a.PayoutSerialID,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelAccept on the wire.
//
// This is part of the dlcwire.Message interface.
func (a *SubChannelAccept) MsgType() MessageType {
	return MsgSubChannelAccept
}

// TargetChanID returns the channel the sub-channel is spliced into.
//
// This is part of the dlcwire.Message interface.
func (a *SubChannelAccept) TargetChanID() ChannelID {
	return a.ChannelID
}
