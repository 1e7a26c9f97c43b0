package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// SubChannelCloseFinalize ends the close flow. The receiver of the close
// offer revokes its split transaction and the commitment that spent into it.
type SubChannelCloseFinalize struct {
	// ChannelID identifies the channel holding the sub-channel.
	ChannelID ChannelID

	// SplitRevocationSecret revokes the split transaction.
	SplitRevocationSecret Secret

	// CommitRevocationSecret revokes the commitment that included the
	// split transaction.
	CommitRevocationSecret Secret

	// NextPerCommitmentPoint is the sender's next per-commitment point.
	NextPerCommitmentPoint *btcec.PublicKey
}

// A compile time check to ensure SubChannelCloseFinalize implements the
// dlcwire.SecretCarrier interface.
var _ SecretCarrier = (*SubChannelCloseFinalize)(nil)

// Encode serializes the target SubChannelCloseFinalize into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseFinalize) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, c.ChannelID); err != nil {
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

// Decode deserializes the serialized SubChannelCloseFinalize stored in the
// passed io.Reader into the target SubChannelCloseFinalize using the
// deserialization rules defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseFinalize) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&c.ChannelID,
		&c.SplitRevocationSecret,
		&c.CommitRevocationSecret,
		&c.NextPerCommitmentPoint,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelCloseFinalize on the wire.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseFinalize) MsgType() MessageType {
	return MsgSubChannelCloseFinalize
}

// TargetChanID returns the channel holding the sub-channel.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseFinalize) TargetChanID() ChannelID {
	return c.ChannelID
}

// RevealedSecrets returns the split and commitment revocation secrets.
//
// This is part of the dlcwire.SecretCarrier interface.
func (c *SubChannelCloseFinalize) RevealedSecrets() []Secret {
	return []Secret{c.SplitRevocationSecret, c.CommitRevocationSecret}
}

// ZeroSecrets wipes both revocation secrets.
//
// This is part of the dlcwire.SecretCarrier interface.
func (c *SubChannelCloseFinalize) ZeroSecrets() {
	c.SplitRevocationSecret.Zero()
	c.CommitRevocationSecret.Zero()
}
