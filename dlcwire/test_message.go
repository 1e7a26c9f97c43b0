package dlcwire

import (
	"pgregory.net/rapid"
)

// TestMessage is an interface that extends the base Message interface with a
// method to populate the message with random testing data.
type TestMessage interface {
	Message

	// RandTestMessage populates the message with random data suitable for
	// testing. It uses the rapid testing framework to generate random
	// values.
	RandTestMessage(t *rapid.T) Message
}

// A compile time check to ensure SubChannelOffer implements the TestMessage
// interface.
var _ TestMessage = (*SubChannelOffer)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (o *SubChannelOffer) RandTestMessage(t *rapid.T) Message {
	return &SubChannelOffer{
		ChannelID:                  RandChannelID(t),
		RevocationBasepoint:        RandPubKey(t),
		PublishBasepoint:           RandPubKey(t),
		OwnBasepoint:               RandPubKey(t),
		NextPerSplitPoint:          RandPubKey(t),
		ContractInfo:               RandContractInfo(t),
		ChannelRevocationBasepoint: RandPubKey(t),
		ChannelPublishBasepoint:    RandPubKey(t),
		ChannelOwnBasepoint:        RandPubKey(t),
		ChannelFirstPerUpdatePoint: RandPubKey(t),
		PayoutSPK:                  RandPkScript(t),
		PayoutSerialID:             rapid.Uint64().Draw(t, "serialID"),
		OfferCollateral:            RandAmount(t, "offerCollateral"),
		CetLocktime:                rapid.Uint32().Draw(t, "cetLocktime"),
		RefundLocktime: rapid.Uint32().Draw(
			t, "refundLocktime",
		),
		CetNSequence:    rapid.Uint32().Draw(t, "cetNSequence"),
		FeeRatePerVByte: rapid.Uint64().Draw(t, "feeRate"),
	}
}

// A compile time check to ensure SubChannelAccept implements the TestMessage
// interface.
var _ TestMessage = (*SubChannelAccept)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (a *SubChannelAccept) RandTestMessage(t *rapid.T) Message {
	return &SubChannelAccept{
		ChannelID:                  RandChannelID(t),
		RevocationBasepoint:        RandPubKey(t),
		PublishBasepoint:           RandPubKey(t),
		OwnBasepoint:               RandPubKey(t),
		SplitAdaptorSignature:      RandAdaptorSig(t),
		CommitSignature:            RandSignature(t),
		HtlcSignatures:             RandSignatures(t),
		FirstPerSplitPoint:         RandPubKey(t),
		ChannelRevocationBasepoint: RandPubKey(t),
		ChannelPublishBasepoint:    RandPubKey(t),
		ChannelOwnBasepoint:        RandPubKey(t),
		CetAdaptorSignatures:       RandCetAdaptorSigs(t),
		BufferAdaptorSignature:     RandAdaptorSig(t),
		RefundSignature:            RandSignature(t),
		LnGlueSignature:            RandSignature(t),
		FirstPerUpdatePoint:        RandPubKey(t),
		PayoutSPK:                  RandPkScript(t),
		PayoutSerialID:             rapid.Uint64().Draw(t, "serialID"),
	}
}

// A compile time check to ensure SubChannelConfirm implements the TestMessage
// interface.
var _ TestMessage = (*SubChannelConfirm)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (c *SubChannelConfirm) RandTestMessage(t *rapid.T) Message {
	return &SubChannelConfirm{
		ChannelID:              RandChannelID(t),
		PerCommitmentSecret:    RandSecret(t),
		NextPerCommitmentPoint: RandPubKey(t),
		SplitAdaptorSignature:  RandAdaptorSig(t),
		CommitSignature:        RandSignature(t),
		HtlcSignatures:         RandSignatures(t),
		CetAdaptorSignatures:   RandCetAdaptorSigs(t),
		BufferAdaptorSignature: RandAdaptorSig(t),
		RefundSignature:        RandSignature(t),
		LnGlueSignature:        RandSignature(t),
	}
}

// A compile time check to ensure SubChannelFinalize implements the
// TestMessage interface.
var _ TestMessage = (*SubChannelFinalize)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (f *SubChannelFinalize) RandTestMessage(t *rapid.T) Message {
	return &SubChannelFinalize{
		ChannelID:              RandChannelID(t),
		PerCommitmentSecret:    RandSecret(t),
		NextPerCommitmentPoint: RandPubKey(t),
	}
}

// A compile time check to ensure SubChannelCloseOffer implements the
// TestMessage interface.
var _ TestMessage = (*SubChannelCloseOffer)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (c *SubChannelCloseOffer) RandTestMessage(t *rapid.T) Message {
	return NewSubChannelCloseOffer(
		RandChannelID(t), RandAmount(t, "acceptBalance"),
	)
}

// A compile time check to ensure SubChannelCloseAccept implements the
// TestMessage interface.
var _ TestMessage = (*SubChannelCloseAccept)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (c *SubChannelCloseAccept) RandTestMessage(t *rapid.T) Message {
	return &SubChannelCloseAccept{
		ChannelID:       RandChannelID(t),
		CommitSignature: RandSignature(t),
		HtlcSignatures:  RandSignatures(t),
	}
}

// A compile time check to ensure SubChannelCloseConfirm implements the
// TestMessage interface.
var _ TestMessage = (*SubChannelCloseConfirm)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (c *SubChannelCloseConfirm) RandTestMessage(t *rapid.T) Message {
	return &SubChannelCloseConfirm{
		ChannelID:              RandChannelID(t),
		CommitSignature:        RandSignature(t),
		HtlcSignatures:         RandSignatures(t),
		SplitRevocationSecret:  RandSecret(t),
		CommitRevocationSecret: RandSecret(t),
		NextPerCommitmentPoint: RandPubKey(t),
	}
}

// A compile time check to ensure SubChannelCloseFinalize implements the
// TestMessage interface.
var _ TestMessage = (*SubChannelCloseFinalize)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (c *SubChannelCloseFinalize) RandTestMessage(t *rapid.T) Message {
	return &SubChannelCloseFinalize{
		ChannelID:              RandChannelID(t),
		SplitRevocationSecret:  RandSecret(t),
		CommitRevocationSecret: RandSecret(t),
		NextPerCommitmentPoint: RandPubKey(t),
	}
}

// A compile time check to ensure SubChannelCloseReject implements the
// TestMessage interface.
var _ TestMessage = (*SubChannelCloseReject)(nil)

// RandTestMessage populates the message with random data suitable for testing.
// It uses the rapid testing framework to generate random values.
//
// This is part of the TestMessage interface.
func (c *SubChannelCloseReject) RandTestMessage(t *rapid.T) Message {
	return NewSubChannelCloseReject(RandChannelID(t))
}

// RandMessage draws a random message of a random known type.
func RandMessage(t *rapid.T) Message {
	msgType := rapid.SampledFrom(AllMessageTypes).Draw(t, "msgType")

	msg, err := makeEmptyMessage(msgType)
	if err != nil {
		t.Fatalf("unable to create message: %v", err)
	}

	return msg.(TestMessage).RandTestMessage(t)
}
