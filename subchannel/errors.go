package subchannel

import (
	"errors"
	"fmt"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
)

var (
	// ErrSecretReuse is returned when a message reveals a secret that has
	// already been revealed within the session.
	ErrSecretReuse = errors.New("secret already revealed")

	// ErrSessionTerminal is returned for any message on a session whose
	// sub-channel has been closed.
	ErrSessionTerminal = errors.New("sub-channel session is closed")

	// ErrSessionActive is returned when trying to remove a session that
	// still has a sub-channel in flight.
	ErrSessionActive = errors.New("sub-channel session still active")

	// ErrSessionNotFound is returned when no session exists for a
	// channel.
	ErrSessionNotFound = errors.New("sub-channel session not found")

	// ErrHandlerRejected wraps the error of the channel handler when it
	// refuses an incoming message.
	ErrHandlerRejected = errors.New("channel handler rejected message")

	// ErrNilMessage is returned when a nil message is passed in.
	ErrNilMessage = errors.New("nil sub-channel message")

	// ErrChanIDMismatch is returned when a message is processed against a
	// session keyed by a different channel.
	ErrChanIDMismatch = errors.New("channel id mismatch")
)

// ErrSequenceViolation is returned when a message is not valid for the state
// a session is in. The session is left untouched.
type ErrSequenceViolation struct {
	// ChanID is the channel of the session.
	ChanID dlcwire.ChannelID

	// State is the state of the session when the message arrived.
	State State

	// Direction tells whether we tried to send or received the message.
	Direction Direction

	// MsgType is the type of the offending message.
	MsgType dlcwire.MessageType
}

// Error returns a human readable string describing the error.
//
// NOTE: This is part of the error interface.
func (e *ErrSequenceViolation) Error() string {
	return fmt.Sprintf("sub-channel %v: %v %v not allowed in state %v",
		e.ChanID, e.Direction, e.MsgType, e.State)
}

// newSequenceViolation creates the violation for the given session and
// message, marking it terminal where that applies.
func newSequenceViolation(s *Session, dir Direction,
	msgType dlcwire.MessageType) error {

	violation := &ErrSequenceViolation{
		ChanID:    s.ChanID,
		State:     s.State,
		Direction: dir,
		MsgType:   msgType,
	}

	if s.State.IsTerminal() {
		return fmt.Errorf("%w: %w", ErrSessionTerminal, violation)
	}

	return violation
}
