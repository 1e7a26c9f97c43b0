package dlcwire

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestContractInfoShortDescriptor checks that a descriptor length far beyond
// the remaining input fails as truncated without allocating the declared
// length.
//
// NOTE: not parallel, as the allocation count is process wide.
func TestContractInfoShortDescriptor(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteSatoshi(&b, 100_000))
	require.NoError(t, WriteBigSize(&b, MaxContractDescriptorLen-1))
	require.NoError(t, WriteBytes(&b, []byte{0x01}))
	raw := b.Bytes()

	const runs = 10

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	for range runs {
		var info ContractInfo
		err := ReadElement(bytes.NewReader(raw), &info)
		require.ErrorIs(t, err, ErrTruncated)
	}

	runtime.ReadMemStats(&after)

	perDecode := (after.TotalAlloc - before.TotalAlloc) / runs
	require.Less(t, perDecode, uint64(64*1024))
}

// TestSigListShortInput checks that a signature count far beyond the
// remaining input doesn't allocate room for every declared signature.
//
// NOTE: not parallel, as the allocation count is process wide.
func TestSigListShortInput(t *testing.T) {
	raw := []byte{0xff, 0xff}
	raw = append(raw, make([]byte, SigLen)...)

	const runs = 10

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	for range runs {
		var sigs []Sig
		err := ReadElement(bytes.NewReader(raw), &sigs)
		require.ErrorIs(t, err, ErrTruncated)
	}

	runtime.ReadMemStats(&after)

	perDecode := (after.TotalAlloc - before.TotalAlloc) / runs
	require.Less(t, perDecode, uint64(64*1024))
}

// TestContractInfoDescriptor checks descriptors of a few sizes read back
// whole, and that an oversized declared length is an invalid value.
func TestContractInfoDescriptor(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 511, 512, 513, 70_000} {
		info := ContractInfo{
			TotalCollateral: 42,
			Descriptor:      bytes.Repeat([]byte{0xab}, size),
		}
		if size == 0 {
			info.Descriptor = nil
		}

		var b bytes.Buffer
		require.NoError(t, info.Encode(&b))

		var decoded ContractInfo
		require.NoError(t, decoded.Decode(bytes.NewReader(b.Bytes())))
		require.Equal(t, info, decoded)
	}

	var b bytes.Buffer
	require.NoError(t, WriteSatoshi(&b, 1))
	require.NoError(t, WriteBigSize(&b, MaxContractDescriptorLen+1))

	var info ContractInfo
	err := info.Decode(bytes.NewReader(b.Bytes()))
	require.ErrorIs(t, err, ErrInvalidValue)
}
