package dlcwire

import (
	"bytes"
	"io"
)

// SubChannelCloseReject declines a SubChannelCloseOffer. The sub-channel stays
// active and a new close may be proposed later.
type SubChannelCloseReject struct {
	// ChannelID identifies the channel holding the sub-channel.
	ChannelID ChannelID
}

// NewSubChannelCloseReject creates a new SubChannelCloseReject message.
func NewSubChannelCloseReject(cid ChannelID) *SubChannelCloseReject {
	return &SubChannelCloseReject{
		ChannelID: cid,
	}
}

// A compile time check to ensure SubChannelCloseReject implements the
// dlcwire.Message interface.
var _ Message = (*SubChannelCloseReject)(nil)

// Encode serializes the target SubChannelCloseReject into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseReject) Encode(w *bytes.Buffer, pver uint32) error {
	return WriteChannelID(w, c.ChannelID)
}

// Decode deserializes the serialized SubChannelCloseReject stored in the
// passed io.Reader into the target SubChannelCloseReject using the
// deserialization rules defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseReject) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r, &c.ChannelID)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelCloseReject on the wire.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseReject) MsgType() MessageType {
	return MsgSubChannelCloseReject
}

// TargetChanID returns the channel holding the sub-channel.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseReject) TargetChanID() ChannelID {
	return c.ChannelID
}
