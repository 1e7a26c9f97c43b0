package subchannel

import (
	"bytes"
	"testing"
	"time"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestSessionEncoding checks that sessions survive an encode/decode cycle.
func TestSessionEncoding(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := newSession(dlcwire.RandChannelID(t), time.Unix(
			rapid.Int64Range(0, 1<<32).Draw(t, "created"), 0,
		))
		s.Role = Role(rapid.IntRange(0, 2).Draw(t, "role"))
		s.State = State(rapid.IntRange(
			int(Idle), int(CloseFinalized),
		).Draw(t, "state"))
		s.NumCloseRejects = rapid.Uint32().Draw(t, "rejects")
		s.UpdatedAt = s.CreatedAt.Add(time.Duration(
			rapid.Int64Range(0, 1<<40).Draw(t, "elapsed"),
		))

		if rapid.Bool().Draw(t, "hasLastMsg") {
			s.LastMsgType = fn.Some(rapid.SampledFrom(
				dlcwire.AllMessageTypes,
			).Draw(t, "lastMsg"))
		}

		numSecrets := rapid.IntRange(0, 8).Draw(t, "numSecrets")
		for i := 0; i < numSecrets; i++ {
			s.revealed[dlcwire.RandSecret(t).Digest()] = struct{}{}
		}

		var b bytes.Buffer
		require.NoError(t, s.Encode(&b))

		decoded, err := DecodeSession(bytes.NewReader(b.Bytes()))
		require.NoError(t, err)

		require.Equal(t, s.ChanID, decoded.ChanID)
		require.Equal(t, s.Role, decoded.Role)
		require.Equal(t, s.State, decoded.State)
		require.Equal(t, s.LastMsgType, decoded.LastMsgType)
		require.Equal(t, s.NumCloseRejects, decoded.NumCloseRejects)
		require.True(t, s.CreatedAt.Equal(decoded.CreatedAt))
		require.True(t, s.UpdatedAt.Equal(decoded.UpdatedAt))
		require.Equal(t, s.revealed, decoded.revealed)

		// The encoding is stable.
		var b2 bytes.Buffer
		require.NoError(t, decoded.Encode(&b2))
		require.Equal(t, b.Bytes(), b2.Bytes())
	})
}

// TestDecodeSessionInvalid checks that corrupt sessions are refused.
func TestDecodeSessionInvalid(t *testing.T) {
	t.Parallel()

	encode := func(mutate func(s *Session)) []byte {
		s := newSession(testChanID(1), testTime)
		mutate(s)

		var b bytes.Buffer
		require.NoError(t, s.Encode(&b))

		return b.Bytes()
	}

	testCases := []struct {
		name string
		raw  []byte
	}{
		{
			name: "resting in close rejected",
			raw: encode(func(s *Session) {
				s.State = CloseRejected
			}),
		},
		{
			name: "unknown state",
			raw: encode(func(s *Session) {
				s.State = 200
			}),
		},
		{
			name: "unknown role",
			raw: encode(func(s *Session) {
				s.Role = 3
			}),
		},
		{
			name: "truncated",
			raw: func() []byte {
				b := encode(func(*Session) {})
				return b[:len(b)-1]
			}(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSession(bytes.NewReader(tc.raw))
			require.Error(t, err)
		})
	}
}

// TestSessionCopy checks that a copy doesn't share the revealed secrets.
func TestSessionCopy(t *testing.T) {
	t.Parallel()

	s := newSession(testChanID(1), testTime)
	secret := nextSecret()
	s.revealed[secret.Digest()] = struct{}{}

	c := s.Copy()
	c.revealed[nextSecret().Digest()] = struct{}{}
	c.State = Finalized

	require.Equal(t, 1, s.NumRevealedSecrets())
	require.Equal(t, 2, c.NumRevealedSecrets())
	require.True(t, c.HasRevealed(secret))
	require.Equal(t, Idle, s.State)
}

// TestSessionApplyChanIDMismatch checks that a session refuses messages of
// another channel.
func TestSessionApplyChanIDMismatch(t *testing.T) {
	t.Parallel()

	s := newSession(testChanID(1), testTime)
	_, err := s.apply(Outgoing, testOffer(testChanID(2)), testTime)
	require.ErrorIs(t, err, ErrChanIDMismatch)
	require.Equal(t, Idle, s.State)
	require.Equal(t, RoleUnknown, s.Role)
}

// TestSessionApplyModel checks random message sequences against the
// transition tables: valid messages move the session, anything else leaves
// it exactly as it was.
func TestSessionApplyModel(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := newSession(testChanID(1), testTime)

		numMsgs := rapid.IntRange(1, 40).Draw(t, "numMsgs")
		for i := 0; i < numMsgs; i++ {
			dir := Direction(rapid.IntRange(0, 1).Draw(t, "dir"))
			msgType := rapid.SampledFrom(
				dlcwire.AllMessageTypes,
			).Draw(t, "msgType")

			before := s.Copy()
			_, entry, valid := lookupTransition(
				s.Role, s.State, dir, msgType,
			)

			tr, err := s.apply(
				dir, testMessage(s.ChanID, msgType), testTime,
			)
			if !valid {
				var violation *ErrSequenceViolation
				require.ErrorAs(t, err, &violation)
				require.Equal(t, before, s)

				continue
			}

			require.NoError(t, err)
			require.Equal(t, before.State, tr.From)
			require.Equal(t, entry.next, s.State)
			require.Equal(t, fn.Some(msgType), s.LastMsgType)
			require.NotEqual(t, RoleUnknown, s.Role)

			// The session never rests in CloseRejected.
			require.NotEqual(t, CloseRejected, s.State)
			require.True(t, s.State.valid())
		}
	})
}
