package dlcwire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil"
)

// MaxContractDescriptorLen bounds the serialized contract descriptor carried
// inside a ContractInfo.
const MaxContractDescriptorLen = 1 << 24

// ContractInfo holds the terms of the contract embedded in a sub-channel. The
// descriptor (outcomes, payouts and oracle announcements) has its own
// encoding which is owned by the contract logic, so here it is carried as an
// opaque blob behind the total collateral it distributes.
type ContractInfo struct {
	// TotalCollateral is the sum of both parties' collateral.
	TotalCollateral btcutil.Amount

	// Descriptor is the serialized contract descriptor and oracle info.
	Descriptor []byte
}

// Encode serializes the contract info: the 8 byte total collateral followed by
// the BigSize length of the descriptor and the descriptor itself.
func (c *ContractInfo) Encode(w *bytes.Buffer) error {
	if len(c.Descriptor) > MaxContractDescriptorLen {
		return fmt.Errorf("contract descriptor too large: %d bytes",
			len(c.Descriptor))
	}

	if err := WriteSatoshi(w, c.TotalCollateral); err != nil {
		return err
	}

	if err := WriteBigSize(w, uint64(len(c.Descriptor))); err != nil {
		return err
	}

	return WriteBytes(w, c.Descriptor)
}

// Decode deserializes a contract info written by Encode.
func (c *ContractInfo) Decode(r io.Reader) error {
	if err := ReadElement(r, &c.TotalCollateral); err != nil {
		return err
	}

	descLen, err := readBigSize(r)
	if err != nil {
		return err
	}
	if descLen > MaxContractDescriptorLen {
		return fmt.Errorf("%w: contract descriptor length %d",
			ErrInvalidValue, descLen)
	}

	c.Descriptor = nil
	if descLen == 0 {
		return nil
	}

	// The buffer grows with the bytes actually read rather than with the
	// declared length.
	var desc bytes.Buffer
	n, err := desc.ReadFrom(io.LimitReader(r, int64(descLen)))
	if err != nil {
		return err
	}
	if uint64(n) < descLen {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrTruncated,
			descLen, n)
	}
	c.Descriptor = desc.Bytes()

	return nil
}
