package subchannel

import "fmt"

// State is the negotiation state of a sub-channel session.
type State uint8

const (
	// Idle is the state of a channel without a sub-channel negotiation.
	Idle State = iota

	// OfferSent means we proposed a sub-channel and await the accept.
	OfferSent

	// OfferReceived means the remote party proposed a sub-channel.
	OfferReceived

	// AcceptSent means we accepted the remote offer and await the
	// confirm.
	AcceptSent

	// AcceptReceived means the remote party accepted our offer.
	AcceptReceived

	// ConfirmSent means we confirmed and await the finalize.
	ConfirmSent

	// ConfirmReceived means the remote party confirmed, we still need to
	// send the finalize.
	ConfirmReceived

	// Finalized means the sub-channel is active.
	Finalized

	// CloseOfferSent means we proposed to close the sub-channel.
	CloseOfferSent

	// CloseOfferReceived means the remote party proposed to close the
	// sub-channel.
	CloseOfferReceived

	// CloseAcceptSent means we accepted the remote close offer.
	CloseAcceptSent

	// CloseAcceptReceived means the remote party accepted our close
	// offer.
	CloseAcceptReceived

	// CloseConfirmSent means we confirmed the close and await the
	// finalize.
	CloseConfirmSent

	// CloseConfirmReceived means the remote party confirmed the close,
	// we still need to send the finalize.
	CloseConfirmReceived

	// CloseFinalized means the contract has been removed from the channel.
	// No further messages are accepted for the session.
	CloseFinalized

	// CloseRejected is the outcome of a rejected close offer. Sessions
	// never rest in it: once reported they are back in Finalized.
	CloseRejected
)

// String returns a human readable version of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case OfferSent:
		return "OfferSent"
	case OfferReceived:
		return "OfferReceived"
	case AcceptSent:
		return "AcceptSent"
	case AcceptReceived:
		return "AcceptReceived"
	case ConfirmSent:
		return "ConfirmSent"
	case ConfirmReceived:
		return "ConfirmReceived"
	case Finalized:
		return "Finalized"
	case CloseOfferSent:
		return "CloseOfferSent"
	case CloseOfferReceived:
		return "CloseOfferReceived"
	case CloseAcceptSent:
		return "CloseAcceptSent"
	case CloseAcceptReceived:
		return "CloseAcceptReceived"
	case CloseConfirmSent:
		return "CloseConfirmSent"
	case CloseConfirmReceived:
		return "CloseConfirmReceived"
	case CloseFinalized:
		return "CloseFinalized"
	case CloseRejected:
		return "CloseRejected"
	default:
		return fmt.Sprintf("<unknown State(%d)>", uint8(s))
	}
}

// IsTerminal returns true if no message can move the session out of the
// state.
func (s State) IsTerminal() bool {
	return s == CloseFinalized
}

// IsActive returns true if the sub-channel is live in the channel, including
// while a close is being negotiated.
func (s State) IsActive() bool {
	return s >= Finalized && s < CloseFinalized
}

// valid returns true if the state can be stored in a session.
func (s State) valid() bool {
	return s <= CloseFinalized
}

// Direction tells whether a message is sent or received by the local node.
type Direction uint8

const (
	// Outgoing is a message sent by the local node.
	Outgoing Direction = iota

	// Incoming is a message received from the remote node.
	Incoming
)

// String returns a human readable version of the direction.
func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "outgoing"
	case Incoming:
		return "incoming"
	default:
		return fmt.Sprintf("<unknown Direction(%d)>", uint8(d))
	}
}

// Role is the part the local node plays in the open flow of a sub-channel. It
// is fixed by the direction of the offer.
type Role uint8

const (
	// RoleUnknown is the role of a session that hasn't seen an offer yet.
	RoleUnknown Role = iota

	// Initiator is the role of the node that sent the offer.
	Initiator

	// Responder is the role of the node that received the offer.
	Responder
)

// String returns a human readable version of the role.
func (r Role) String() string {
	switch r {
	case RoleUnknown:
		return "unknown"
	case Initiator:
		return "initiator"
	case Responder:
		return "responder"
	default:
		return fmt.Sprintf("<unknown Role(%d)>", uint8(r))
	}
}

// roleForOffer returns the role the local node takes when an offer flows in
// the given direction.
func roleForOffer(dir Direction) Role {
	if dir == Outgoing {
		return Initiator
	}

	return Responder
}
