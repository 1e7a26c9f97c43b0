package dlcwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lightningnetwork/lnd/tlv"
)

var (
	// ErrNilPublicKey is returned when a nil pubkey is used.
	ErrNilPublicKey = errors.New("cannot write nil pubkey")

	// ErrPkScriptTooLong is returned when the length of the provided
	// script exceeds txscript.MaxScriptSize.
	ErrPkScriptTooLong = errors.New("'PkScript' too long")

	// ErrTooManySigs is returned when a signature list can't be framed
	// with a 2 byte count.
	ErrTooManySigs = errors.New("too many signatures")
)

// WriteBytes appends the given bytes to the provided buffer.
func WriteBytes(buf *bytes.Buffer, b []byte) error {
	_, err := buf.Write(b)
	return err
}

// WriteUint16 appends the uint16 to the provided buffer. It encodes the
// integer using big endian byte order.
func WriteUint16(buf *bytes.Buffer, n uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], n)
	_, err := buf.Write(b[:])
	return err
}

// WriteUint32 appends the uint32 to the provided buffer. It encodes the
// integer using big endian byte order.
func WriteUint32(buf *bytes.Buffer, n uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	_, err := buf.Write(b[:])
	return err
}

// WriteUint64 appends the uint64 to the provided buffer. It encodes the
// integer using big endian byte order.
func WriteUint64(buf *bytes.Buffer, n uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	_, err := buf.Write(b[:])
	return err
}

// WriteBigSize appends the integer to the provided buffer using the variable
// length BigSize encoding.
func WriteBigSize(buf *bytes.Buffer, n uint64) error {
	var b [8]byte
	return tlv.WriteVarInt(buf, n, &b)
}

// WriteSatoshi appends the Satoshi value to the provided buffer.
func WriteSatoshi(buf *bytes.Buffer, amount btcutil.Amount) error {
	return WriteUint64(buf, uint64(amount))
}

// WritePublicKey appends the compressed public key to the provided buffer.
func WritePublicKey(buf *bytes.Buffer, pub *btcec.PublicKey) error {
	if pub == nil {
		return ErrNilPublicKey
	}

	serializedPubkey := pub.SerializeCompressed()
	return WriteBytes(buf, serializedPubkey)
}

// WriteChannelID appends the ChannelID to the provided buffer.
func WriteChannelID(buf *bytes.Buffer, channelID ChannelID) error {
	return WriteBytes(buf, channelID[:])
}

// WriteSecret appends the 32 byte secret to the provided buffer.
func WriteSecret(buf *bytes.Buffer, secret Secret) error {
	if err := secret.validate(); err != nil {
		return err
	}

	return WriteBytes(buf, secret[:])
}

// WriteSig appends the signature to the provided buffer. Signatures whose R
// or S overflow the curve order are refused.
func WriteSig(buf *bytes.Buffer, sig Sig) error {
	if err := sig.validate(); err != nil {
		return err
	}

	return WriteBytes(buf, sig[:])
}

// WriteSigs appends the slice of signatures to the provided buffer with its
// length.
func WriteSigs(buf *bytes.Buffer, sigs []Sig) error {
	if len(sigs) > math.MaxUint16 {
		return fmt.Errorf("%w: %d", ErrTooManySigs, len(sigs))
	}

	// Write the length of the sigs.
	if err := WriteUint16(buf, uint16(len(sigs))); err != nil {
		return err
	}

	for _, sig := range sigs {
		if err := WriteSig(buf, sig); err != nil {
			return err
		}
	}
	return nil
}

// WriteAdaptorSig appends the fixed width adaptor signature to the provided
// buffer. No length prefix is written.
func WriteAdaptorSig(buf *bytes.Buffer, sig AdaptorSig) error {
	return WriteBytes(buf, sig[:])
}

// WriteCetAdaptorSigs appends the BigSize count of adaptor signatures
// followed by each signature.
func WriteCetAdaptorSigs(buf *bytes.Buffer, sigs CetAdaptorSignatures) error {
	if err := WriteBigSize(buf, uint64(len(sigs))); err != nil {
		return err
	}

	for _, sig := range sigs {
		if err := WriteAdaptorSig(buf, sig); err != nil {
			return err
		}
	}
	return nil
}

// WritePkScript appends the script with a 2 byte length prefix.
func WritePkScript(buf *bytes.Buffer, script PkScript) error {
	if len(script) > txscript.MaxScriptSize {
		return fmt.Errorf("%w: %d bytes", ErrPkScriptTooLong,
			len(script))
	}

	return writeDataWithLength(buf, script)
}

// WriteContractInfo appends the contract info sub-message to the provided
// buffer.
func WriteContractInfo(buf *bytes.Buffer, info ContractInfo) error {
	return info.Encode(buf)
}

// writeDataWithLength writes the data and its length to the buffer.
func writeDataWithLength(buf *bytes.Buffer, data []byte) error {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(data)))
	if _, err := buf.Write(l[:]); err != nil {
		return err
	}

	_, err := buf.Write(data)
	return err
}
