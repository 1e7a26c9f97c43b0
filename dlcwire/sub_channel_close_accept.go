package dlcwire

import (
	"bytes"
	"io"
)

// SubChannelCloseAccept accepts a close proposal and signs the commitment of
// the channel as it will look without the contract.
type SubChannelCloseAccept struct {
	// ChannelID identifies the channel holding the sub-channel.
	ChannelID ChannelID

	// CommitSignature is the signature for the post-close commitment.
	CommitSignature Sig

	// HtlcSignatures holds a signature for each HTLC output of the
	// post-close commitment.
	HtlcSignatures []Sig
}

// A compile time check to ensure SubChannelCloseAccept implements the
// dlcwire.Message interface.
var _ Message = (*SubChannelCloseAccept)(nil)

// Encode serializes the target SubChannelCloseAccept into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseAccept) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, c.ChannelID); err != nil {
		return err
	}

	if err := WriteSig(w, c.CommitSignature); err != nil {
		return err
	}

	return WriteSigs(w, c.HtlcSignatures)
}

// Decode deserializes the serialized SubChannelCloseAccept stored in the
// passed io.Reader into the target SubChannelCloseAccept using the
// deserialization rules defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseAccept) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&c.ChannelID,
		&c.CommitSignature,
		&c.HtlcSignatures,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelCloseAccept on the wire.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseAccept) MsgType() MessageType {
	return MsgSubChannelCloseAccept
}

// TargetChanID returns the channel holding the sub-channel.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseAccept) TargetChanID() ChannelID {
	return c.ChannelID
}
