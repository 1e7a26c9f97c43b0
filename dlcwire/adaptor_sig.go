package dlcwire

import "encoding/hex"

// AdaptorSigLen is the width of a serialized ECDSA adaptor signature: the
// two nonce points, the adapted scalar and the 64 byte DLEQ proof.
const AdaptorSigLen = 162

// AdaptorSig is an ECDSA adaptor signature in its canonical serialized form.
// The message layer treats it as opaque. Producing, verifying and adapting it
// is left to the signer.
type AdaptorSig [AdaptorSigLen]byte

// String returns the hex encoding of the adaptor signature.
func (a AdaptorSig) String() string {
	return hex.EncodeToString(a[:])
}

// CetAdaptorSignatures is the set of adaptor signatures for every contract
// execution transaction of the embedded contract, one per outcome.
type CetAdaptorSignatures []AdaptorSig
