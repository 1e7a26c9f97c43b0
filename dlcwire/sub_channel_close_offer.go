package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcutil"
)

// SubChannelCloseOffer proposes to remove the contract from the channel and
// fold its value back into the channel balances. Either party may send it
// once the sub-channel is active.
type SubChannelCloseOffer struct {
	// ChannelID identifies the channel holding the sub-channel.
	ChannelID ChannelID

	// AcceptBalance is the balance the accepting party ends up with once
	// the contract has been removed.
	AcceptBalance btcutil.Amount
}

// NewSubChannelCloseOffer creates a new SubChannelCloseOffer message.
func NewSubChannelCloseOffer(cid ChannelID,
	acceptBalance btcutil.Amount) *SubChannelCloseOffer {

	return &SubChannelCloseOffer{
		ChannelID:     cid,
		AcceptBalance: acceptBalance,
	}
}

// A compile time check to ensure SubChannelCloseOffer implements the
// dlcwire.Message interface.
var _ Message = (*SubChannelCloseOffer)(nil)

// Encode serializes the target SubChannelCloseOffer into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseOffer) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, c.ChannelID); err != nil {
		return err
	}

	return WriteSatoshi(w, c.AcceptBalance)
}

// Decode deserializes the serialized SubChannelCloseOffer stored in the passed
// io.Reader into the target SubChannelCloseOffer using the deserialization
// rules defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseOffer) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r, &c.ChannelID, &c.AcceptBalance)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelCloseOffer on the wire.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseOffer) MsgType() MessageType {
	return MsgSubChannelCloseOffer
}

// TargetChanID returns the channel holding the sub-channel.
//
// This is part of the dlcwire.Message interface.
func (c *SubChannelCloseOffer) TargetChanID() ChannelID {
	return c.ChannelID
}
