package main

import (
	"context"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
)

// replayHandler stands in for the channel handler when replaying a captured
// exchange. The signatures of a capture can't be checked without the channel
// state, so every message is accepted once it passes the session checks.
type replayHandler struct{}

// A compile time check to ensure replayHandler implements the
// subchannel.ChannelHandler interface.
var _ subchannel.ChannelHandler = (*replayHandler)(nil)

func (r *replayHandler) HandleSubChannelOffer(_ context.Context,
	msg *dlcwire.SubChannelOffer) error {

	log.Debugf("Channel %v: offer with collateral %v, total %v",
		msg.ChannelID, msg.OfferCollateral,
		msg.ContractInfo.TotalCollateral)

	return nil
}

func (r *replayHandler) HandleSubChannelAccept(_ context.Context,
	msg *dlcwire.SubChannelAccept) error {

	log.Debugf("Channel %v: accept with %d CET adaptor signatures",
		msg.ChannelID, len(msg.CetAdaptorSignatures))

	return nil
}

func (r *replayHandler) HandleSubChannelConfirm(_ context.Context,
	msg *dlcwire.SubChannelConfirm) error {

	log.Debugf("Channel %v: confirm with %d CET adaptor signatures",
		msg.ChannelID, len(msg.CetAdaptorSignatures))

	return nil
}

func (r *replayHandler) HandleSubChannelFinalize(_ context.Context,
	msg *dlcwire.SubChannelFinalize) error {

	log.Debugf("Channel %v: finalize", msg.ChannelID)

	return nil
}

func (r *replayHandler) HandleSubChannelCloseOffer(_ context.Context,
	msg *dlcwire.SubChannelCloseOffer) error {

	log.Debugf("Channel %v: close offer, accept balance %v",
		msg.ChannelID, msg.AcceptBalance)

	return nil
}

func (r *replayHandler) HandleSubChannelCloseAccept(_ context.Context,
	msg *dlcwire.SubChannelCloseAccept) error {

	log.Debugf("Channel %v: close accept", msg.ChannelID)

	return nil
}

func (r *replayHandler) HandleSubChannelCloseConfirm(_ context.Context,
	msg *dlcwire.SubChannelCloseConfirm) error {

	log.Debugf("Channel %v: close confirm", msg.ChannelID)

	return nil
}

func (r *replayHandler) HandleSubChannelCloseFinalize(_ context.Context,
	msg *dlcwire.SubChannelCloseFinalize) error {

	log.Debugf("Channel %v: close finalize", msg.ChannelID)

	return nil
}

func (r *replayHandler) HandleSubChannelCloseReject(_ context.Context,
	msg *dlcwire.SubChannelCloseReject) error {

	log.Debugf("Channel %v: close reject", msg.ChannelID)

	return nil
}
