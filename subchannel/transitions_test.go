package subchannel

import (
	"testing"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/stretchr/testify/require"
)

// TestTransitionTables checks the structure of the transition tables.
func TestTransitionTables(t *testing.T) {
	t.Parallel()

	for role, table := range transitionTables {
		for key, entry := range table {
			// No entry leaves a terminal state.
			require.False(t, key.state.IsTerminal(), "%v %v", role,
				key)

			// The next state can be stored.
			require.True(t, entry.next.valid())

			// Only a close reject reports an outcome.
			isReject := key.msgType == dlcwire.MsgSubChannelCloseReject
			require.Equal(t, isReject, entry.outcome.IsSome())

			// Open flow messages never appear after finalize, and
			// close flow messages never before.
			if key.msgType.IsCloseFlow() {
				require.GreaterOrEqual(t, key.state, Finalized)
			} else {
				require.Less(t, key.state, Finalized)
			}
		}
	}
}

// TestLookupTransitionRole checks that the role is taken from the offer.
func TestLookupTransitionRole(t *testing.T) {
	t.Parallel()

	role, entry, ok := lookupTransition(
		RoleUnknown, Idle, Outgoing, dlcwire.MsgSubChannelOffer,
	)
	require.True(t, ok)
	require.Equal(t, Initiator, role)
	require.Equal(t, OfferSent, entry.next)

	role, entry, ok = lookupTransition(
		RoleUnknown, Idle, Incoming, dlcwire.MsgSubChannelOffer,
	)
	require.True(t, ok)
	require.Equal(t, Responder, role)
	require.Equal(t, OfferReceived, entry.next)

	// Without an offer there's no role to pick.
	_, _, ok = lookupTransition(
		RoleUnknown, Idle, Incoming, dlcwire.MsgSubChannelAccept,
	)
	require.False(t, ok)

	_, _, ok = lookupTransition(
		RoleUnknown, Finalized, Incoming,
		dlcwire.MsgSubChannelCloseOffer,
	)
	require.False(t, ok)

	// An initiator can't take the responder's steps.
	_, _, ok = lookupTransition(
		Initiator, OfferReceived, Outgoing,
		dlcwire.MsgSubChannelAccept,
	)
	require.False(t, ok)
}

// TestStateStrings checks the state helpers.
func TestStateStrings(t *testing.T) {
	t.Parallel()

	for s := Idle; s <= CloseRejected; s++ {
		require.NotContains(t, s.String(), "unknown")
	}
	require.Contains(t, State(100).String(), "unknown")
	require.Contains(t, Direction(5).String(), "unknown")
	require.Contains(t, Role(5).String(), "unknown")

	require.False(t, Idle.IsActive())
	require.False(t, ConfirmReceived.IsActive())
	require.True(t, Finalized.IsActive())
	require.True(t, CloseConfirmSent.IsActive())
	require.False(t, CloseFinalized.IsActive())
	require.True(t, CloseFinalized.IsTerminal())
	require.False(t, CloseRejected.valid())
}
