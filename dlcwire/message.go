// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// code derived from https://github .com/btcsuite/btcd/blob/master/wire/message.go
// Copyright (C) 2015-2022 The Lightning Network Developers

package dlcwire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MessageType is the unique 2 byte big-endian integer that indicates the type
// of sub-channel message on the wire. Like the parent channel protocol, the
// header consists solely of the type. Length and integrity are provided by
// the encrypted transport the messages are carried over.
type MessageType uint16

// The sub-channel message types. The values are fixed: new kinds are only ever
// appended to this set, existing values are never reused.
const (
	MsgSubChannelOffer         MessageType = 43034
	MsgSubChannelAccept        MessageType = 43036
	MsgSubChannelConfirm       MessageType = 43038
	MsgSubChannelFinalize      MessageType = 43040
	MsgSubChannelCloseOffer    MessageType = 43042
	MsgSubChannelCloseAccept   MessageType = 43044
	MsgSubChannelCloseConfirm  MessageType = 43046
	MsgSubChannelCloseFinalize MessageType = 43048
	MsgSubChannelCloseReject   MessageType = 43050
)

// AllMessageTypes is the closed set of known sub-channel message types, in
// protocol order.
var AllMessageTypes = []MessageType{
	MsgSubChannelOffer,
	MsgSubChannelAccept,
	MsgSubChannelConfirm,
	MsgSubChannelFinalize,
	MsgSubChannelCloseOffer,
	MsgSubChannelCloseAccept,
	MsgSubChannelCloseConfirm,
	MsgSubChannelCloseFinalize,
	MsgSubChannelCloseReject,
}

// ErrorEncodeMessage is used when failed to encode the message payload.
func ErrorEncodeMessage(err error) error {
	return fmt.Errorf("failed to encode message to buffer, got %w", err)
}

// ErrorWriteMessageType is used when failed to write the message type.
func ErrorWriteMessageType(err error) error {
	return fmt.Errorf("failed to write message type, got %w", err)
}

// String return the string representation of message type.
func (t MessageType) String() string {
	switch t {
	case MsgSubChannelOffer:
		return "SubChannelOffer"
	case MsgSubChannelAccept:
		return "SubChannelAccept"
	case MsgSubChannelConfirm:
		return "SubChannelConfirm"
	case MsgSubChannelFinalize:
		return "SubChannelFinalize"
	case MsgSubChannelCloseOffer:
		return "SubChannelCloseOffer"
	case MsgSubChannelCloseAccept:
		return "SubChannelCloseAccept"
	case MsgSubChannelCloseConfirm:
		return "SubChannelCloseConfirm"
	case MsgSubChannelCloseFinalize:
		return "SubChannelCloseFinalize"
	case MsgSubChannelCloseReject:
		return "SubChannelCloseReject"
	default:
		return "<unknown>"
	}
}

// IsCloseFlow returns true if the message type belongs to the close
// sub-channel flow.
func (t MessageType) IsCloseFlow() bool {
	switch t {
	case MsgSubChannelCloseOffer, MsgSubChannelCloseAccept,
		MsgSubChannelCloseConfirm, MsgSubChannelCloseFinalize,
		MsgSubChannelCloseReject:

		return true
	default:
		return false
	}
}

// UnknownMessage is an implementation of the error interface that allows the
// creation of an error in response to an unknown message.
type UnknownMessage struct {
	messageType MessageType
}

// NewUnknownMessage returns the error for the passed unknown type.
func NewUnknownMessage(t MessageType) *UnknownMessage {
	return &UnknownMessage{messageType: t}
}

// Type returns the message type that could not be parsed.
func (u *UnknownMessage) Type() MessageType {
	return u.messageType
}

// Error returns a human readable string describing the error.
//
// This is part of the error interface.
func (u *UnknownMessage) Error() string {
	return fmt.Sprintf("unable to parse message of unknown type: %d",
		uint16(u.messageType))
}

// Serializable is an interface which defines a sub-channel wire serializable
// object.
type Serializable interface {
	// Decode reads the bytes stream and converts it to the object.
	Decode(io.Reader, uint32) error

	// Encode converts object to the bytes stream and write it into the
	// write buffer.
	Encode(*bytes.Buffer, uint32) error
}

// Message is an interface that defines a sub-channel wire protocol message.
type Message interface {
	Serializable

	// MsgType returns the type tag of the message.
	MsgType() MessageType

	// TargetChanID returns the channel the sub-channel session belongs
	// to.
	TargetChanID() ChannelID
}

// makeEmptyMessage creates a new empty message of the proper concrete type
// based on the passed message type.
func makeEmptyMessage(msgType MessageType) (Message, error) {
	var msg Message

	switch msgType {
	case MsgSubChannelOffer:
		msg = &SubChannelOffer{}
	case MsgSubChannelAccept:
		msg = &SubChannelAccept{}
	case MsgSubChannelConfirm:
		msg = &SubChannelConfirm{}
	case MsgSubChannelFinalize:
		msg = &SubChannelFinalize{}
	case MsgSubChannelCloseOffer:
		msg = &SubChannelCloseOffer{}
	case MsgSubChannelCloseAccept:
		msg = &SubChannelCloseAccept{}
	case MsgSubChannelCloseConfirm:
		msg = &SubChannelCloseConfirm{}
	case MsgSubChannelCloseFinalize:
		msg = &SubChannelCloseFinalize{}
	case MsgSubChannelCloseReject:
		msg = &SubChannelCloseReject{}
	default:
		return nil, &UnknownMessage{msgType}
	}

	return msg, nil
}

// WriteMessage writes a sub-channel Message to a buffer including the type
// header and returns the number of bytes written. If any error is encountered,
// the buffer passed will be reset to its original state so either all or none
// of the message bytes end up in the buffer.
//
// NOTE: this method is not concurrent safe.
func WriteMessage(buf *bytes.Buffer, msg Message, pver uint32) (int, error) {
	// Record the size of the bytes already written in buffer.
	oldByteSize := buf.Len()

	// cleanBrokenBytes is a helper closure that helps reset the buffer to
	// its original state. It truncates all the bytes written in current
	// scope.
	var cleanBrokenBytes = func(b *bytes.Buffer) int {
		b.Truncate(oldByteSize)
		return 0
	}

	// Write the message type.
	var mType [2]byte
	binary.BigEndian.PutUint16(mType[:], uint16(msg.MsgType()))
	if _, err := buf.Write(mType[:]); err != nil {
		return cleanBrokenBytes(buf), ErrorWriteMessageType(err)
	}

	// Use the write buffer to encode our message.
	if err := msg.Encode(buf, pver); err != nil {
		return cleanBrokenBytes(buf), ErrorEncodeMessage(err)
	}

	return buf.Len() - oldByteSize, nil
}

// ReadMessage reads, validates, and parses the next sub-channel message from
// r for the provided protocol version. The reader must yield exactly one
// message worth of bytes, delimiting messages is left to the transport.
func ReadMessage(r io.Reader, pver uint32) (Message, error) {
	// First, we'll read out the first two bytes of the message so we can
	// create the proper empty message.
	var mType [2]byte
	if err := readFull(r, mType[:]); err != nil {
		return nil, fmt.Errorf("message type: %w", err)
	}

	msgType := MessageType(binary.BigEndian.Uint16(mType[:]))

	// Now that we know the target message type, we can create the proper
	// empty message type and decode the message into it.
	msg, err := makeEmptyMessage(msgType)
	if err != nil {
		return nil, err
	}
	if err := msg.Decode(r, pver); err != nil {
		return nil, err
	}

	return msg, nil
}

// Wrap serializes the message payload and returns it along with the type tag
// that must precede it on the wire.
func Wrap(msg Message) (MessageType, []byte, error) {
	var b bytes.Buffer
	if err := msg.Encode(&b, 0); err != nil {
		return 0, nil, ErrorEncodeMessage(err)
	}

	return msg.MsgType(), b.Bytes(), nil
}

// Unwrap decodes the payload of a single message with the given type tag. Tags
// outside of the known set are rejected before the payload is looked at.
func Unwrap(msgType MessageType, payload []byte) (Message, error) {
	msg, err := makeEmptyMessage(msgType)
	if err != nil {
		return nil, err
	}

	if err := msg.Decode(bytes.NewReader(payload), 0); err != nil {
		return nil, fmt.Errorf("unable to decode %v: %w", msgType, err)
	}

	return msg, nil
}
