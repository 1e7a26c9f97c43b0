package dlcwire

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// SigLen is the length of a compact ECDSA signature on the wire.
const SigLen = 64

// Sig is a fixed-sized ECDSA signature in its 64 byte compact form: the 32
// byte big-endian R value followed by the 32 byte big-endian S value.
type Sig [SigLen]byte

// NewSigFromSignature creates a new compact signature from an ECDSA signature.
func NewSigFromSignature(e *ecdsa.Signature) (Sig, error) {
	var sig Sig
	if e == nil {
		return sig, fmt.Errorf("cannot decode empty signature")
	}

	r, s := e.R(), e.S()
	r.PutBytesUnchecked(sig[:32])
	s.PutBytesUnchecked(sig[32:])

	return sig, nil
}

// ToSignature converts the compact signature into an ECDSA signature. Both
// scalars must be non-zero and lie below the curve order.
func (b Sig) ToSignature() (*ecdsa.Signature, error) {
	var r, s btcec.ModNScalar
	if r.SetByteSlice(b[:32]) || r.IsZero() {
		return nil, fmt.Errorf("%w: signature R is out of range",
			ErrInvalidValue)
	}
	if s.SetByteSlice(b[32:]) || s.IsZero() {
		return nil, fmt.Errorf("%w: signature S is out of range",
			ErrInvalidValue)
	}

	return ecdsa.NewSignature(&r, &s), nil
}

// validate checks that neither scalar overflows the curve order. A zero
// signature is structurally valid and can still be carried on the wire.
func (b Sig) validate() error {
	var r, s btcec.ModNScalar
	if r.SetByteSlice(b[:32]) {
		return fmt.Errorf("%w: signature R overflows", ErrInvalidValue)
	}
	if s.SetByteSlice(b[32:]) {
		return fmt.Errorf("%w: signature S overflows", ErrInvalidValue)
	}

	return nil
}
