package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// genMessage draws an example message of the given kind for the channel.
func genMessage(t *testing.T, tm dlcwire.TestMessage, cid dlcwire.ChannelID,
	seed int) dlcwire.Message {

	t.Helper()

	msg := rapid.Custom(tm.RandTestMessage).Example(seed)
	switch m := msg.(type) {
	case *dlcwire.SubChannelOffer:
		m.ChannelID = cid
	case *dlcwire.SubChannelAccept:
		m.ChannelID = cid
	case *dlcwire.SubChannelConfirm:
		m.ChannelID = cid
		m.PerCommitmentSecret = testSecret(seed)
	case *dlcwire.SubChannelFinalize:
		m.ChannelID = cid
		m.PerCommitmentSecret = testSecret(seed)
	case *dlcwire.SubChannelCloseOffer:
		m.ChannelID = cid
	case *dlcwire.SubChannelCloseReject:
		m.ChannelID = cid
	default:
		t.Fatalf("unexpected message %T", msg)
	}

	return msg
}

// testSecret returns a small distinct secret per seed.
func testSecret(seed int) dlcwire.Secret {
	var s dlcwire.Secret
	s[31] = byte(seed)

	return s
}

// hexMsg encodes the message as a capture would hold it.
func hexMsg(t *testing.T, msg dlcwire.Message) string {
	t.Helper()

	var b bytes.Buffer
	require.NoError(t, encodeMessage(&b, msg))

	return strings.TrimSpace(b.String())
}

// captureLines returns the capture of a full open flow followed by a
// rejected close for the channel.
func captureLines(t *testing.T, cid dlcwire.ChannelID) []string {
	t.Helper()

	return []string{
		"send " + hexMsg(t, genMessage(
			t, &dlcwire.SubChannelOffer{}, cid, 1,
		)),
		"recv " + hexMsg(t, genMessage(
			t, &dlcwire.SubChannelAccept{}, cid, 2,
		)),
		"send " + hexMsg(t, genMessage(
			t, &dlcwire.SubChannelConfirm{}, cid, 3,
		)),
		"recv " + hexMsg(t, genMessage(
			t, &dlcwire.SubChannelFinalize{}, cid, 4,
		)),
		"recv " + hexMsg(t, genMessage(
			t, &dlcwire.SubChannelCloseOffer{}, cid, 5,
		)),
		"send " + hexMsg(t, genMessage(
			t, &dlcwire.SubChannelCloseReject{}, cid, 6,
		)),
	}
}

func newTestReplayer(t *testing.T, out *bytes.Buffer) (*replayer,
	*prometheus.Registry) {

	t.Helper()

	registry := prometheus.NewRegistry()
	metrics, err := subchannel.NewMetrics(registry)
	require.NoError(t, err)

	mgr, err := subchannel.NewManager(&subchannel.Config{
		Store:   subchannel.NewMemStore(),
		Handler: &replayHandler{},
		Metrics: metrics,
	})
	require.NoError(t, err)

	return &replayer{mgr: mgr, out: out}, registry
}

// TestReplay replays a capture of a full exchange.
func TestReplay(t *testing.T) {
	t.Parallel()

	for _, batch := range []bool{false, true} {
		t.Run(fmt.Sprintf("batch=%v", batch), func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			r, registry := newTestReplayer(t, &out)
			r.batch = batch

			cid := dlcwire.ChannelID{1, 2, 3}
			capture := "# open\n\n" +
				strings.Join(captureLines(t, cid), "\n")

			err := r.run(
				context.Background(), strings.NewReader(capture),
			)
			require.NoError(t, err)

			lines := strings.Split(
				strings.TrimSpace(out.String()), "\n",
			)
			require.Len(t, lines, 6)
			require.Contains(t, lines[0], "line 3:")
			require.Contains(t, lines[0], "Idle -> OfferSent")
			require.Contains(t, lines[3], "-> Finalized")
			require.Contains(t, lines[5], "(CloseRejected)")

			sess, err := r.mgr.Session(cid)
			require.NoError(t, err)
			require.Equal(
				t, subchannel.Finalized, sess.UnwrapOr(nil).State,
			)

			var metrics bytes.Buffer
			require.NoError(t, printMetrics(&metrics, registry))
			require.Contains(t, metrics.String(),
				`subchannel_messages_total{direction="incoming",`+
					`type="SubChannelAccept"} 1`)
		})
	}
}

// TestReplayRefused checks the handling of refused messages.
func TestReplayRefused(t *testing.T) {
	t.Parallel()

	cid := dlcwire.ChannelID{4}
	lines := captureLines(t, cid)

	// Drop the accept so the confirm comes out of order.
	capture := strings.Join(append(lines[:1:1], lines[2:]...), "\n")

	var out bytes.Buffer
	r, _ := newTestReplayer(t, &out)

	err := r.run(context.Background(), strings.NewReader(capture))

	var violation *subchannel.ErrSequenceViolation
	require.ErrorAs(t, err, &violation)
	require.Contains(t, err.Error(), "line 2")

	// When keeping going every later line is reported.
	out.Reset()
	r, _ = newTestReplayer(t, &out)
	r.keepGoing = true

	err = r.run(context.Background(), strings.NewReader(capture))
	require.NoError(t, err)
	require.Equal(t, 5, strings.Count(out.String(), "line "))
	require.Equal(t, 4, strings.Count(out.String(), "refused"))
}

// TestReplayMalformed checks that malformed lines stop the replay.
func TestReplayMalformed(t *testing.T) {
	t.Parallel()

	testCases := []string{
		"send",
		"send zz",
		"forward a82a",
		"send a8 extra",
	}

	for _, capture := range testCases {
		var out bytes.Buffer
		r, _ := newTestReplayer(t, &out)
		r.keepGoing = true

		err := r.run(context.Background(), strings.NewReader(capture))
		require.Error(t, err, capture)
	}

	// Undecodable messages are refused like invalid ones.
	var out bytes.Buffer
	r, _ := newTestReplayer(t, &out)
	r.keepGoing = true

	err := r.run(context.Background(), strings.NewReader("recv a82a00"))
	require.NoError(t, err)
	require.Contains(t, out.String(), "refused")
}

// TestDecodeMessage checks the message dump.
func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	cid := dlcwire.ChannelID{9}
	offer := dlcwire.NewSubChannelCloseOffer(cid, 500_000)

	var out bytes.Buffer
	require.NoError(t, decodeMessage(&out, hexMsg(t, offer), false))
	require.Contains(t, out.String(), "SubChannelCloseOffer (43042)")
	require.Contains(t, out.String(), cid.String())
	require.Contains(t, out.String(), "AcceptBalance")

	// Secrets are only shown on request.
	confirm := hexMsg(t, genMessage(
		t, &dlcwire.SubChannelConfirm{}, cid, 7,
	))

	var hidden, shown bytes.Buffer
	require.NoError(t, decodeMessage(&hidden, confirm, false))
	require.NoError(t, decodeMessage(&shown, confirm, true))
	require.NotEqual(t, hidden.String(), shown.String())

	require.Error(t, decodeMessage(&out, "not hex", false))
	require.Error(t, decodeMessage(&out, "a81b", false))
	require.Error(t, decodeMessage(&out, "a822", false))
}

// TestEncodeClose checks the encoding of the close messages.
func TestEncodeClose(t *testing.T) {
	t.Parallel()

	cid := dlcwire.ChannelID{0xaa}

	var out bytes.Buffer
	require.NoError(
		t, encodeMessage(&out, dlcwire.NewSubChannelCloseReject(cid)),
	)
	require.Equal(t, "a82a"+hex.EncodeToString(cid[:])+"\n", out.String())

	out.Reset()
	require.NoError(t, encodeMessage(
		&out, dlcwire.NewSubChannelCloseOffer(cid, 500_000),
	))
	require.Equal(
		t, "a822"+hex.EncodeToString(cid[:])+"000000000007a120\n",
		out.String(),
	)
}

// TestParseChanID checks the two ways of naming a channel.
func TestParseChanID(t *testing.T) {
	t.Parallel()

	cid := dlcwire.ChannelID{1, 2, 3, 4}
	parsed, err := parseChanID(hex.EncodeToString(cid[:]), "", 0)
	require.NoError(t, err)
	require.Equal(t, cid, parsed)

	txid := chainhash.Hash{0x11, 0x22}
	parsed, err = parseChanID("", txid.String(), 3)
	require.NoError(t, err)
	require.Equal(
		t, dlcwire.NewChanIDFromOutPoint(*wire.NewOutPoint(&txid, 3)),
		parsed,
	)
	require.True(t, parsed.IsChanPoint(*wire.NewOutPoint(&txid, 3)))

	_, err = parseChanID("", "", 0)
	require.Error(t, err)

	_, err = parseChanID("0102", "", 0)
	require.Error(t, err)

	_, err = parseChanID(hex.EncodeToString(cid[:]), txid.String(), 0)
	require.Error(t, err)

	_, err = parseChanID("", "xyz", 0)
	require.Error(t, err)
}

// TestPrintSessions checks the session listing.
func TestPrintSessions(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r, _ := newTestReplayer(t, &out)

	cid := dlcwire.ChannelID{5}
	capture := strings.Join(captureLines(t, cid)[:2], "\n")
	require.NoError(
		t, r.run(context.Background(), strings.NewReader(capture)),
	)

	sessions, err := r.mgr.Sessions()
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, printSessions(&out, sessions))
	require.Contains(t, out.String(), cid.String())
	require.Contains(t, out.String(), "role=initiator")
	require.Contains(t, out.String(), "state=AcceptReceived")
	require.Contains(t, out.String(), "last_msg=SubChannelAccept")
}
