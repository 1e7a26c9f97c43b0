package subchannel

import (
	"context"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/stretchr/testify/mock"
)

type mockHandler struct {
	mock.Mock
}

func (h *mockHandler) HandleSubChannelOffer(ctx context.Context,
	msg *dlcwire.SubChannelOffer) error {

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelAccept(ctx context.Context,
	msg *dlcwire.SubChannelAccept) error {

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelConfirm(ctx context.Context,
	msg *dlcwire.SubChannelConfirm) error {

	// The handler must see the secrets before they are wiped.
	if msg.PerCommitmentSecret.IsZero() {
		panic("secret wiped before handoff")
	}

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelFinalize(ctx context.Context,
	msg *dlcwire.SubChannelFinalize) error {

	if msg.PerCommitmentSecret.IsZero() {
		panic("secret wiped before handoff")
	}

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelCloseOffer(ctx context.Context,
	msg *dlcwire.SubChannelCloseOffer) error {

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelCloseAccept(ctx context.Context,
	msg *dlcwire.SubChannelCloseAccept) error {

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelCloseConfirm(ctx context.Context,
	msg *dlcwire.SubChannelCloseConfirm) error {

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelCloseFinalize(ctx context.Context,
	msg *dlcwire.SubChannelCloseFinalize) error {

	return h.Called(ctx, msg).Error(0)
}

func (h *mockHandler) HandleSubChannelCloseReject(ctx context.Context,
	msg *dlcwire.SubChannelCloseReject) error {

	return h.Called(ctx, msg).Error(0)
}

// handlerMethods lists the handler method of each message type.
var handlerMethods = map[dlcwire.MessageType]string{
	dlcwire.MsgSubChannelOffer:         "HandleSubChannelOffer",
	dlcwire.MsgSubChannelAccept:        "HandleSubChannelAccept",
	dlcwire.MsgSubChannelConfirm:       "HandleSubChannelConfirm",
	dlcwire.MsgSubChannelFinalize:      "HandleSubChannelFinalize",
	dlcwire.MsgSubChannelCloseOffer:    "HandleSubChannelCloseOffer",
	dlcwire.MsgSubChannelCloseAccept:   "HandleSubChannelCloseAccept",
	dlcwire.MsgSubChannelCloseConfirm:  "HandleSubChannelCloseConfirm",
	dlcwire.MsgSubChannelCloseFinalize: "HandleSubChannelCloseFinalize",
	dlcwire.MsgSubChannelCloseReject:   "HandleSubChannelCloseReject",
}

// acceptAll makes the handler accept every message.
func (h *mockHandler) acceptAll() {
	for _, method := range handlerMethods {
		h.On(method, mock.Anything, mock.Anything).Return(nil)
	}
}

// keyCounter hands out distinct scalars to the test helpers.
var keyCounter atomic.Uint32

// nextSecret returns a fresh valid secret.
func nextSecret() dlcwire.Secret {
	n := keyCounter.Add(1)

	var s dlcwire.Secret
	s[28] = byte(n >> 24)
	s[29] = byte(n >> 16)
	s[30] = byte(n >> 8)
	s[31] = byte(n)

	return s
}

// nextPubKey returns a fresh public key.
func nextPubKey() *btcec.PublicKey {
	return nextSecret().PubKey()
}

func testOffer(cid dlcwire.ChannelID) *dlcwire.SubChannelOffer {
	return &dlcwire.SubChannelOffer{
		ChannelID:           cid,
		RevocationBasepoint: nextPubKey(),
		PublishBasepoint:    nextPubKey(),
		OwnBasepoint:        nextPubKey(),
		NextPerSplitPoint:   nextPubKey(),
		ContractInfo: dlcwire.ContractInfo{
			TotalCollateral: 200_000,
			Descriptor:      []byte{0x01, 0x02, 0x03},
		},
		ChannelRevocationBasepoint: nextPubKey(),
		ChannelPublishBasepoint:    nextPubKey(),
		ChannelOwnBasepoint:        nextPubKey(),
		ChannelFirstPerUpdatePoint: nextPubKey(),
		PayoutSPK:                  dlcwire.PkScript{0x00, 0x14},
		PayoutSerialID:             1,
		OfferCollateral:            100_000,
		CetLocktime:                100,
		RefundLocktime:             200,
		CetNSequence:               0xfffffffe,
		FeeRatePerVByte:            2,
	}
}

func testAccept(cid dlcwire.ChannelID) *dlcwire.SubChannelAccept {
	return &dlcwire.SubChannelAccept{
		ChannelID:                  cid,
		RevocationBasepoint:        nextPubKey(),
		PublishBasepoint:           nextPubKey(),
		OwnBasepoint:               nextPubKey(),
		HtlcSignatures:             []dlcwire.Sig{{1}},
		FirstPerSplitPoint:         nextPubKey(),
		ChannelRevocationBasepoint: nextPubKey(),
		ChannelPublishBasepoint:    nextPubKey(),
		ChannelOwnBasepoint:        nextPubKey(),
		CetAdaptorSignatures:       dlcwire.CetAdaptorSignatures{{2}},
		FirstPerUpdatePoint:        nextPubKey(),
		PayoutSPK:                  dlcwire.PkScript{0x00, 0x14},
		PayoutSerialID:             2,
	}
}

func testConfirm(cid dlcwire.ChannelID) *dlcwire.SubChannelConfirm {
	return &dlcwire.SubChannelConfirm{
		ChannelID:              cid,
		PerCommitmentSecret:    nextSecret(),
		NextPerCommitmentPoint: nextPubKey(),
		CetAdaptorSignatures:   dlcwire.CetAdaptorSignatures{{3}},
	}
}

func testFinalize(cid dlcwire.ChannelID) *dlcwire.SubChannelFinalize {
	return &dlcwire.SubChannelFinalize{
		ChannelID:              cid,
		PerCommitmentSecret:    nextSecret(),
		NextPerCommitmentPoint: nextPubKey(),
	}
}

func testCloseOffer(cid dlcwire.ChannelID) *dlcwire.SubChannelCloseOffer {
	return dlcwire.NewSubChannelCloseOffer(cid, 50_000)
}

func testCloseAccept(cid dlcwire.ChannelID) *dlcwire.SubChannelCloseAccept {
	return &dlcwire.SubChannelCloseAccept{
		ChannelID: cid,
	}
}

func testCloseConfirm(
	cid dlcwire.ChannelID) *dlcwire.SubChannelCloseConfirm {

	return &dlcwire.SubChannelCloseConfirm{
		ChannelID:              cid,
		SplitRevocationSecret:  nextSecret(),
		CommitRevocationSecret: nextSecret(),
		NextPerCommitmentPoint: nextPubKey(),
	}
}

func testCloseFinalize(
	cid dlcwire.ChannelID) *dlcwire.SubChannelCloseFinalize {

	return &dlcwire.SubChannelCloseFinalize{
		ChannelID:              cid,
		SplitRevocationSecret:  nextSecret(),
		CommitRevocationSecret: nextSecret(),
		NextPerCommitmentPoint: nextPubKey(),
	}
}

func testCloseReject(cid dlcwire.ChannelID) *dlcwire.SubChannelCloseReject {
	return dlcwire.NewSubChannelCloseReject(cid)
}

// testMessage builds a valid message of the given type.
func testMessage(cid dlcwire.ChannelID,
	msgType dlcwire.MessageType) dlcwire.Message {

	switch msgType {
	case dlcwire.MsgSubChannelOffer:
		return testOffer(cid)
	case dlcwire.MsgSubChannelAccept:
		return testAccept(cid)
	case dlcwire.MsgSubChannelConfirm:
		return testConfirm(cid)
	case dlcwire.MsgSubChannelFinalize:
		return testFinalize(cid)
	case dlcwire.MsgSubChannelCloseOffer:
		return testCloseOffer(cid)
	case dlcwire.MsgSubChannelCloseAccept:
		return testCloseAccept(cid)
	case dlcwire.MsgSubChannelCloseConfirm:
		return testCloseConfirm(cid)
	case dlcwire.MsgSubChannelCloseFinalize:
		return testCloseFinalize(cid)
	default:
		return testCloseReject(cid)
	}
}
