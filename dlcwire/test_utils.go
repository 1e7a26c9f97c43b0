package dlcwire

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"pgregory.net/rapid"
)

// maxRandSatoshi bounds the random amounts to the total bitcoin supply.
const maxRandSatoshi = btcutil.MaxSatoshi

// RandSecret generates a random secret that is a valid, non-zero scalar.
func RandSecret(t *rapid.T) Secret {
	secretBytes := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(
		t, "secretBytes",
	)

	var k btcec.ModNScalar
	_ = k.SetByteSlice(secretBytes)
	if k.IsZero() {
		k.SetInt(1)
	}

	var s Secret
	k.PutBytes((*[32]byte)(&s))

	return s
}

// RandPubKey generates a random public key using rapid's generators.
func RandPubKey(t *rapid.T) *btcec.PublicKey {
	return RandSecret(t).PubKey()
}

// RandChannelID generates a random channel ID.
func RandChannelID(t *rapid.T) ChannelID {
	var c ChannelID
	bytes := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "channelID")
	copy(c[:], bytes)

	return c
}

// RandSignature generates a signature for testing.
func RandSignature(t *rapid.T) Sig {
	testRScalar := new(btcec.ModNScalar)
	testSScalar := new(btcec.ModNScalar)

	// Generate random bytes for R and S
	rBytes := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "rBytes")
	sBytes := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "sBytes")
	_ = testRScalar.SetByteSlice(rBytes)
	_ = testSScalar.SetByteSlice(sBytes)

	testSig := ecdsa.NewSignature(testRScalar, testSScalar)

	sig, err := NewSigFromSignature(testSig)
	if err != nil {
		panic(fmt.Sprintf("unable to create signature: %v", err))
	}

	return sig
}

// RandSignatures generates a random list of signatures. An empty list is
// returned as nil, matching what the decoder produces.
func RandSignatures(t *rapid.T) []Sig {
	numSigs := rapid.IntRange(0, 10).Draw(t, "numSigs")
	if numSigs == 0 {
		return nil
	}

	sigs := make([]Sig, numSigs)
	for i := range sigs {
		sigs[i] = RandSignature(t)
	}

	return sigs
}

// RandAdaptorSig generates an adaptor signature filled with random bytes.
func RandAdaptorSig(t *rapid.T) AdaptorSig {
	var sig AdaptorSig
	bytes := rapid.SliceOfN(
		rapid.Byte(), AdaptorSigLen, AdaptorSigLen,
	).Draw(t, "adaptorSig")
	copy(sig[:], bytes)

	return sig
}

// RandCetAdaptorSigs generates a random set of CET adaptor signatures.
func RandCetAdaptorSigs(t *rapid.T) CetAdaptorSignatures {
	numSigs := rapid.IntRange(0, 8).Draw(t, "numCetSigs")
	if numSigs == 0 {
		return nil
	}

	sigs := make(CetAdaptorSignatures, numSigs)
	for i := range sigs {
		sigs[i] = RandAdaptorSig(t)
	}

	return sigs
}

// RandPkScript generates a random payout script.
func RandPkScript(t *rapid.T) PkScript {
	scriptLen := rapid.IntRange(0, 100).Draw(t, "scriptLen")
	if scriptLen == 0 {
		return nil
	}

	return rapid.SliceOfN(rapid.Byte(), scriptLen, scriptLen).Draw(
		t, "pkScript",
	)
}

// RandAmount generates a random amount no larger than the coin supply.
func RandAmount(t *rapid.T, label string) btcutil.Amount {
	return btcutil.Amount(rapid.Int64Range(0, maxRandSatoshi).Draw(
		t, label,
	))
}

// RandContractInfo generates random contract terms with an opaque
// descriptor.
func RandContractInfo(t *rapid.T) ContractInfo {
	info := ContractInfo{
		TotalCollateral: RandAmount(t, "totalCollateral"),
	}

	descLen := rapid.IntRange(0, 300).Draw(t, "descriptorLen")
	if descLen > 0 {
		info.Descriptor = rapid.SliceOfN(
			rapid.Byte(), descLen, descLen,
		).Draw(t, "descriptor")
	}

	return info
}
