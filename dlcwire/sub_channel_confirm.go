package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// SubChannelConfirm is sent by the initiator once it has validated the
// SubChannelAccept. It counter-signs the new state and revokes the parent
// channel's previous commitment by revealing its per-commitment secret.
type SubChannelConfirm struct {
	// ChannelID identifies the channel the contract is spliced into.
	ChannelID ChannelID

	// PerCommitmentSecret revokes the offerer's previous commitment.
	PerCommitmentSecret Secret

	// NextPerCommitmentPoint is the offerer's next per-commitment point.
	NextPerCommitmentPoint *btcec.PublicKey

	// SplitAdaptorSignature is the offerer's adaptor signature for the
	// split transaction.
	SplitAdaptorSignature AdaptorSig

	// CommitSignature is the offerer's signature for the accepter's new
	// commitment transaction.
	CommitSignature Sig

	// HtlcSignatures holds a signature for each HTLC output of the new
	// commitment transaction.
	HtlcSignatures []Sig

	// CetAdaptorSignatures are the offerer's adaptor signatures for all
	// the contract execution transactions.
	CetAdaptorSignatures CetAdaptorSignatures

	// BufferAdaptorSignature is the offerer's adaptor signature for the
	// buffer transaction.
	BufferAdaptorSignature AdaptorSig

	// RefundSignature is the offerer's signature for the refund
	// transaction.
	RefundSignature Sig

	// LnGlueSignature binds the parent channel's new commitment to the
	// split transaction.
	LnGlueSignature Sig
}

// A compile time check to ensure SubChannelConfirm implements the
// dlcwire.SecretCarrier interface.
var _ SecretCarrier = (*SubChannelConfirm)(nil)

// Encode serializes the target SubChannelConfirm into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelConfirm) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, c.ChannelID); err != nil {
		return err
	}

	if err := WriteSecret(w, c.PerCommitmentSecret); err != nil {
		return err
	}

	if err := WritePublicKey(w, c.NextPerCommitmentPoint); err != nil {
		return err
	}

	if err := WriteAdaptorSig(w, c.SplitAdaptorSignature); err != nil {
		return err
	}

	if err := WriteSig(w, c.CommitSignature); err != nil {
		return err
	}

	if err := WriteSigs(w, c.HtlcSignatures); err != nil {
		return err
	}

	if err := WriteCetAdaptorSigs(w, c.CetAdaptorSignatures); err != nil {
		return err
	}

	if err := WriteAdaptorSig(w, c.BufferAdaptorSignature); err != nil {
		return err
	}

	if err := WriteSig(w, c.RefundSignature); err != nil {
		return err
	}

	return WriteSig(w, c.LnGlueSignature)
}

// Decode deserializes the serialized SubChannelConfirm stored in the passed
// io.Reader into the target SubChannelConfirm using the deserialization rules
// defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelConfirm) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&c.ChannelID,
		&c.PerCommitmentSecret,
		&c.NextPerCommitmentPoint,
		&c.SplitAdaptorSignature,
		&c.CommitSignature,
		&c.HtlcSignatures,
		&c.CetAdaptorSignatures,
		&c.BufferAdaptorSignature,
		&c.RefundSignature,
		&c.LnGlueSignature,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelConfirm on the wire.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelConfirm) MsgType() MessageType {
	return MsgSubChannelConfirm
}

// TargetChanID returns the channel the sub-channel is spliced into.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelConfirm) TargetChanID() ChannelID {
	return c.ChannelID
}

// RevealedSecrets returns the per-commitment secret revealed by the message.
//
// This is part of the dlcwire.SecretCarrier interface.
func (c *SubChannelConfirm) RevealedSecrets() []Secret {
	return []Secret{c.PerCommitmentSecret}
}

// ZeroSecrets wipes the per-commitment secret.
//
// This is part of the dlcwire.SecretCarrier interface.
func (c *SubChannelConfirm) ZeroSecrets() {
	c.PerCommitmentSecret.Zero()
}
