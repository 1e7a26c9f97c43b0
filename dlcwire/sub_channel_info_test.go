package dlcwire

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestSubChannelInfoValidate checks the collateral accounting of a split.
func TestSubChannelInfoValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		info       SubChannelInfo
		collateral btcutil.Amount
		fees       btcutil.Amount
		valid      bool
	}{
		{
			name: "balanced",
			info: SubChannelInfo{
				SenderSatoshi:   60_000,
				ReceiverSatoshi: 39_000,
			},
			collateral: 100_000,
			fees:       1_000,
			valid:      true,
		},
		{
			name: "fees unaccounted",
			info: SubChannelInfo{
				SenderSatoshi:   60_000,
				ReceiverSatoshi: 40_000,
			},
			collateral: 100_000,
			fees:       1_000,
		},
		{
			name: "negative balance",
			info: SubChannelInfo{
				SenderSatoshi:   101_000,
				ReceiverSatoshi: -2_000,
			},
			collateral: 100_000,
			fees:       1_000,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.info.Validate(tc.collateral, tc.fees)
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

// TestSubChannelInfoEncoding asserts the split round trips as two 8 byte
// integers.
func TestSubChannelInfoEncoding(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		info := SubChannelInfo{
			SenderSatoshi:   RandAmount(rt, "sender"),
			ReceiverSatoshi: RandAmount(rt, "receiver"),
		}

		var b bytes.Buffer
		require.NoError(rt, info.Encode(&b))
		require.Equal(rt, 16, b.Len())

		var decoded SubChannelInfo
		require.NoError(rt, decoded.Decode(bytes.NewReader(b.Bytes())))
		require.Equal(rt, info, decoded)

		err := decoded.Decode(bytes.NewReader(b.Bytes()[:15]))
		require.ErrorIs(rt, err, ErrTruncated)
	})
}
