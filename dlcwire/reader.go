package dlcwire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lightningnetwork/lnd/tlv"
)

var (
	// ErrTruncated is returned when the input ends before a field has
	// been fully read, or a declared length exceeds the remaining bytes.
	ErrTruncated = errors.New("truncated input")

	// ErrInvalidValue is returned when the bytes for a field are present
	// but don't form a valid instance of the field's type.
	ErrInvalidValue = errors.New("invalid value")
)

// readFull reads exactly len(b) bytes from r, mapping a short read to
// ErrTruncated.
func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	switch {
	case err == nil:
		return nil

	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: need %d bytes", ErrTruncated, len(b))

	default:
		return err
	}
}

// readBigSize reads a BigSize integer, classifying the possible failures.
func readBigSize(r io.Reader) (uint64, error) {
	var b [8]byte
	n, err := tlv.ReadVarInt(r, &b)
	switch {
	case err == nil:
		return n, nil

	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return 0, fmt.Errorf("%w: bigsize", ErrTruncated)

	case errors.Is(err, tlv.ErrVarIntNotCanonical):
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)

	default:
		return 0, err
	}
}

// ReadElement is a one-stop utility function to deserialize any datastructure
// encoded using the serialization format of dlcwire.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint16:
		var b [2]byte
		if err := readFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint16(b[:])

	case *uint32:
		var b [4]byte
		if err := readFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint32(b[:])

	case *uint64:
		var b [8]byte
		if err := readFull(r, b[:]); err != nil {
			return err
		}
		*e = binary.BigEndian.Uint64(b[:])

	case *btcutil.Amount:
		var b [8]byte
		if err := readFull(r, b[:]); err != nil {
			return err
		}
		*e = btcutil.Amount(int64(binary.BigEndian.Uint64(b[:])))

	case *ChannelID:
		if err := readFull(r, e[:]); err != nil {
			return err
		}

	case *Secret:
		var s Secret
		if err := readFull(r, s[:]); err != nil {
			return err
		}
		if err := s.validate(); err != nil {
			return err
		}
		*e = s

	case **btcec.PublicKey:
		var b [btcec.PubKeyBytesLenCompressed]byte
		if err := readFull(r, b[:]); err != nil {
			return err
		}

		// Only the compressed encoding is allowed on the wire.
		if b[0] != 0x02 && b[0] != 0x03 {
			return fmt.Errorf("%w: pubkey format 0x%02x",
				ErrInvalidValue, b[0])
		}

		pubKey, err := btcec.ParsePubKey(b[:])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		*e = pubKey

	case *Sig:
		var sig Sig
		if err := readFull(r, sig[:]); err != nil {
			return err
		}
		if err := sig.validate(); err != nil {
			return err
		}
		*e = sig

	case *[]Sig:
		var numSigs uint16
		if err := ReadElement(r, &numSigs); err != nil {
			return err
		}

		var sigs []Sig
		for i := 0; i < int(numSigs); i++ {
			var sig Sig
			if err := ReadElement(r, &sig); err != nil {
				return err
			}
			sigs = append(sigs, sig)
		}
		*e = sigs

	case *AdaptorSig:
		if err := readFull(r, e[:]); err != nil {
			return err
		}

	case *CetAdaptorSignatures:
		numSigs, err := readBigSize(r)
		if err != nil {
			return err
		}

		// The count comes straight off the wire, so we grow the slice
		// as signatures are read instead of trusting it up front.
		var sigs CetAdaptorSignatures
		for i := uint64(0); i < numSigs; i++ {
			var sig AdaptorSig
			if err := ReadElement(r, &sig); err != nil {
				return err
			}
			sigs = append(sigs, sig)
		}
		*e = sigs

	case *PkScript:
		var scriptLen uint16
		if err := ReadElement(r, &scriptLen); err != nil {
			return err
		}
		if int(scriptLen) > txscript.MaxScriptSize {
			return fmt.Errorf("%w: script length %d exceeds %d",
				ErrInvalidValue, scriptLen,
				txscript.MaxScriptSize)
		}

		var script PkScript
		if scriptLen > 0 {
			script = make(PkScript, scriptLen)
			if err := readFull(r, script); err != nil {
				return err
			}
		}
		*e = script

	case *ContractInfo:
		return e.Decode(r)

	case *SubChannelInfo:
		return e.Decode(r)

	default:
		return fmt.Errorf("unknown type in ReadElement: %T", e)
	}

	return nil
}

// ReadElements deserializes a variable number of elements into the passed
// io.Reader, with each element being deserialized according to the ReadElement
// function.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}
