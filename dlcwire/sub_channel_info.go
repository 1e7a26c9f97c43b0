package dlcwire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil"
)

// SubChannelInfo is the split of the sub-channel's value between the two
// parties at a point in time. It is not a message on its own.
type SubChannelInfo struct {
	// SenderSatoshi is the amount held by the party that offered the
	// sub-channel.
	SenderSatoshi btcutil.Amount

	// ReceiverSatoshi is the amount held by the party that accepted the
	// sub-channel.
	ReceiverSatoshi btcutil.Amount
}

// Validate checks that the two balances plus the fees add up to the total
// collateral committed when the sub-channel was opened.
func (s *SubChannelInfo) Validate(totalCollateral,
	fees btcutil.Amount) error {

	if s.SenderSatoshi < 0 || s.ReceiverSatoshi < 0 || fees < 0 {
		return fmt.Errorf("%w: negative amount in sub-channel split",
			ErrInvalidValue)
	}

	sum := s.SenderSatoshi + s.ReceiverSatoshi + fees
	if sum != totalCollateral {
		return fmt.Errorf("%w: sender %v + receiver %v + fees %v != "+
			"collateral %v", ErrInvalidValue, s.SenderSatoshi,
			s.ReceiverSatoshi, fees, totalCollateral)
	}

	return nil
}

// Encode writes both balances as 8 byte big-endian integers.
func (s *SubChannelInfo) Encode(w *bytes.Buffer) error {
	if err := WriteSatoshi(w, s.SenderSatoshi); err != nil {
		return err
	}

	return WriteSatoshi(w, s.ReceiverSatoshi)
}

// Decode reads both balances written by Encode.
func (s *SubChannelInfo) Decode(r io.Reader) error {
	return ReadElements(r, &s.SenderSatoshi, &s.ReceiverSatoshi)
}
