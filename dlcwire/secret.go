package dlcwire

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// SecretLen is the length of a per-commitment or revocation secret.
const SecretLen = 32

// Secret is a per-commitment, per-split or revocation secret. Revealing one
// revokes the state its point was used for, so a given secret is only ever
// handed over once and the receiver takes ownership of it.
type Secret [SecretLen]byte

// NewSecretFromPrivKey copies the scalar of the private key into a Secret.
func NewSecretFromPrivKey(priv *btcec.PrivateKey) Secret {
	var s Secret
	copy(s[:], priv.Serialize())

	return s
}

// PrivKey returns the secret as a private key.
func (s Secret) PrivKey() *btcec.PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(s[:])
	return priv
}

// PubKey returns the point committed to by the secret, which the receiver can
// compare against the per-commitment point it was given earlier.
func (s Secret) PubKey() *btcec.PublicKey {
	return s.PrivKey().PubKey()
}

// Digest returns a hash of the secret. Sessions keep digests rather than the
// secrets themselves to detect reuse.
func (s Secret) Digest() [32]byte {
	return sha256.Sum256(s[:])
}

// IsZero returns true if the secret has been wiped or never set.
func (s *Secret) IsZero() bool {
	return *s == Secret{}
}

// Zero wipes the secret in place.
func (s *Secret) Zero() {
	for i := range s {
		s[i] = 0
	}
}

// validate checks that the secret is a valid secp256k1 scalar.
func (s Secret) validate() error {
	var k btcec.ModNScalar
	if k.SetByteSlice(s[:]) {
		return fmt.Errorf("%w: secret overflows curve order",
			ErrInvalidValue)
	}
	if k.IsZero() {
		return fmt.Errorf("%w: secret is zero", ErrInvalidValue)
	}

	return nil
}

// SecretCarrier is implemented by the messages that reveal secrets. Once the
// message has been handed off, ZeroSecrets wipes them from the message so the
// message layer does not hold on to them.
type SecretCarrier interface {
	Message

	// RevealedSecrets returns a copy of every secret the message reveals.
	RevealedSecrets() []Secret

	// ZeroSecrets wipes every secret held by the message.
	ZeroSecrets()
}
