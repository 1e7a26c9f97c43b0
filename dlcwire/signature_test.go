package dlcwire

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// TestSignatureConversion asserts that a real signature survives the trip
// through its compact wire form and still verifies.
func TestSignatureConversion(t *testing.T) {
	t.Parallel()

	priv := testSecret(42).PrivKey()
	hash := chainhash.HashB([]byte("sub-channel"))

	ecSig := ecdsa.Sign(priv, hash)
	sig, err := NewSigFromSignature(ecSig)
	require.NoError(t, err)

	parsed, err := sig.ToSignature()
	require.NoError(t, err)
	require.True(t, parsed.Verify(hash, priv.PubKey()))
	require.True(t, parsed.IsEqual(ecSig))

	_, err = NewSigFromSignature(nil)
	require.Error(t, err)
}

// TestSignatureScalarRange checks which compact signatures are accepted.
func TestSignatureScalarRange(t *testing.T) {
	t.Parallel()

	// A zero signature can be carried but not used.
	var zero Sig
	require.NoError(t, zero.validate())
	_, err := zero.ToSignature()
	require.ErrorIs(t, err, ErrInvalidValue)

	var overflow Sig
	copy(overflow[:32], bytes.Repeat([]byte{0xff}, 32))
	overflow[63] = 1
	require.ErrorIs(t, overflow.validate(), ErrInvalidValue)
	_, err = overflow.ToSignature()
	require.ErrorIs(t, err, ErrInvalidValue)
}

// TestWriteSigOverflow checks that a signature the reader would refuse can't
// be written either.
func TestWriteSigOverflow(t *testing.T) {
	t.Parallel()

	var overflowS Sig
	copy(overflowS[32:], bytes.Repeat([]byte{0xff}, 32))

	var b bytes.Buffer
	require.ErrorIs(t, WriteSig(&b, overflowS), ErrInvalidValue)
	require.ErrorIs(
		t, WriteSigs(&b, []Sig{{}, overflowS}), ErrInvalidValue,
	)

	// The zero signature stays writable and reads back.
	b.Reset()
	require.NoError(t, WriteSig(&b, Sig{}))

	var sig Sig
	require.NoError(t, ReadElement(&b, &sig))
	require.Equal(t, Sig{}, sig)
}
