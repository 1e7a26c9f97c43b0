package subchannel

import (
	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// transitionKey identifies a single entry of a transition table.
type transitionKey struct {
	state   State
	dir     Direction
	msgType dlcwire.MessageType
}

// transitionEntry is the result of a valid transition.
type transitionEntry struct {
	// next is the state the session rests in afterwards.
	next State

	// outcome is reported to the caller in addition to the next state
	// when the two differ.
	outcome fn.Option[State]
}

// initiatorOpenTransitions is the open flow as seen by the node that sends
// the offer.
var initiatorOpenTransitions = map[transitionKey]transitionEntry{
	{Idle, Outgoing, dlcwire.MsgSubChannelOffer}: {
		next: OfferSent,
	},
	{OfferSent, Incoming, dlcwire.MsgSubChannelAccept}: {
		next: AcceptReceived,
	},
	{AcceptReceived, Outgoing, dlcwire.MsgSubChannelConfirm}: {
		next: ConfirmSent,
	},
	{ConfirmSent, Incoming, dlcwire.MsgSubChannelFinalize}: {
		next: Finalized,
	},
}

// responderOpenTransitions is the open flow as seen by the node that receives
// the offer.
var responderOpenTransitions = map[transitionKey]transitionEntry{
	{Idle, Incoming, dlcwire.MsgSubChannelOffer}: {
		next: OfferReceived,
	},
	{OfferReceived, Outgoing, dlcwire.MsgSubChannelAccept}: {
		next: AcceptSent,
	},
	{AcceptSent, Incoming, dlcwire.MsgSubChannelConfirm}: {
		next: ConfirmReceived,
	},
	{ConfirmReceived, Outgoing, dlcwire.MsgSubChannelFinalize}: {
		next: Finalized,
	},
}

// closeTransitions is the close flow. Either party may propose the close, so
// the entries are shared by both roles.
var closeTransitions = map[transitionKey]transitionEntry{
	{Finalized, Outgoing, dlcwire.MsgSubChannelCloseOffer}: {
		next: CloseOfferSent,
	},
	{Finalized, Incoming, dlcwire.MsgSubChannelCloseOffer}: {
		next: CloseOfferReceived,
	},
	{CloseOfferSent, Incoming, dlcwire.MsgSubChannelCloseAccept}: {
		next: CloseAcceptReceived,
	},
	{CloseOfferReceived, Outgoing, dlcwire.MsgSubChannelCloseAccept}: {
		next: CloseAcceptSent,
	},
	{CloseAcceptReceived, Outgoing, dlcwire.MsgSubChannelCloseConfirm}: {
		next: CloseConfirmSent,
	},
	{CloseAcceptSent, Incoming, dlcwire.MsgSubChannelCloseConfirm}: {
		next: CloseConfirmReceived,
	},
	{CloseConfirmSent, Incoming, dlcwire.MsgSubChannelCloseFinalize}: {
		next: CloseFinalized,
	},
	{CloseConfirmReceived, Outgoing, dlcwire.MsgSubChannelCloseFinalize}: {
		next: CloseFinalized,
	},
	{CloseOfferSent, Incoming, dlcwire.MsgSubChannelCloseReject}: {
		next:    Finalized,
		outcome: fn.Some(CloseRejected),
	},
	{CloseOfferReceived, Outgoing, dlcwire.MsgSubChannelCloseReject}: {
		next:    Finalized,
		outcome: fn.Some(CloseRejected),
	},
}

// transitionTables holds the authoritative transition table of each role.
var transitionTables = map[Role]map[transitionKey]transitionEntry{
	Initiator: mergeTransitions(
		initiatorOpenTransitions, closeTransitions,
	),
	Responder: mergeTransitions(
		responderOpenTransitions, closeTransitions,
	),
}

// mergeTransitions combines the given tables into a new one.
func mergeTransitions(
	tables ...map[transitionKey]transitionEntry,
) map[transitionKey]transitionEntry {

	merged := make(map[transitionKey]transitionEntry)
	for _, table := range tables {
		for key, entry := range table {
			merged[key] = entry
		}
	}

	return merged
}

// lookupTransition returns the transition a message triggers for a session
// with the given role and state. A session without a role picks its role from
// the direction of the message, which only works out for an offer.
func lookupTransition(role Role, state State, dir Direction,
	msgType dlcwire.MessageType) (Role, transitionEntry, bool) {

	if role == RoleUnknown && msgType == dlcwire.MsgSubChannelOffer {
		role = roleForOffer(dir)
	}

	table, ok := transitionTables[role]
	if !ok {
		return role, transitionEntry{}, false
	}

	entry, ok := table[transitionKey{state, dir, msgType}]

	return role, entry, ok
}
