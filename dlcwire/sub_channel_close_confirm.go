package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// SubChannelCloseConfirm is sent by the party that proposed the close once it
// has received the SubChannelCloseAccept. Along with its own signatures for
// the post-close commitment it revokes both the split transaction and the
// commitment that spent into it.
type SubChannelCloseConfirm struct {
	// ChannelID identifies the channel holding the sub-channel.
	ChannelID ChannelID

	// CommitSignature is the signature for the post-close commitment.
	CommitSignature Sig

	// HtlcSignatures holds a signature for each HTLC output of the
	// post-close commitment.
	HtlcSignatures []Sig

	// SplitRevocationSecret revokes the split transaction.
	SplitRevocationSecret Secret

	// CommitRevocationSecret revokes the commitment that included the
	// split transaction.
	CommitRevocationSecret Secret

	// NextPerCommitmentPoint is the sender's next per-commitment point.
	NextPerCommitmentPoint *btcec.PublicKey
}

// A compile time check to ensure SubChannelCloseConfirm implements the
// dlcwire.SecretCarrier interface.
var _ SecretCarrier = (*SubChannelCloseConfirm)(nil)

// Encode serializes the target SubChannelCloseConfirm into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseConfirm) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, c.ChannelID); err != nil {
		return err
	}

	if err := WriteSig(w, c.CommitSignature); err != nil {
		return err
	}

	if err := WriteSigs(w, c.HtlcSignatures); err != nil {
		return err
	}

	if err := WriteSecret(w, c.SplitRevocationSecret); err != nil {
		return err
	}

	if err := WriteSecret(w, c.CommitRevocationSecret); err != nil {
		return err
	}

	return WritePublicKey(w, c.NextPerCommitmentPoint)
}

// Decode deserializes the serialized SubChannelCloseConfirm stored in the
// passed io.Reader into the target SubChannelCloseConfirm using the
// deserialization rules defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseConfirm) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&c.ChannelID,
		&c.CommitSignature,
		&c.HtlcSignatures,
		&c.SplitRevocationSecret,
		&c.CommitRevocationSecret,
		&c.NextPerCommitmentPoint,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelCloseConfirm on the wire.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseConfirm) MsgType() MessageType {
	return MsgSubChannelCloseConfirm
}

// TargetChanID returns the channel holding the sub-channel.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseConfirm) TargetChanID() ChannelID {
	return c.ChannelID
}

// RevealedSecrets returns the split and commitment revocation secrets.
//
// This is part of the dlcwire.SecretCarrier interface.
func (c *SubChannelCloseConfirm) RevealedSecrets() []Secret {
	return []Secret{c.SplitRevocationSecret, c.CommitRevocationSecret}
}

// ZeroSecrets wipes both revocation secrets.
//
// This is part of the dlcwire.SecretCarrier interface.
func (c *SubChannelCloseConfirm) ZeroSecrets() {
	c.SplitRevocationSecret.Zero()
	c.CommitRevocationSecret.Zero()
}
