// decimal_parser.go - Parser for packed DECIMAL fields
package column

import (
	"fmt"
	"math/big"

	"github.com/wilhasse/go-tps/schema"
)

// DecimalParser handles DECIMAL fields: one decimal digit per nibble, most
// significant first. A high nibble of 0xF in the first byte marks a negative value.
type DecimalParser struct {
	BaseParser
}

func (p *DecimalParser) Parse(input []byte, offset, width int, f *schema.FieldDefinition, opts *Options) (any, error) {
	b, err := p.readBytes(input, offset, width)
	if err != nil {
		return nil, err
	}
	return DecodeDecimal(b, int(f.DecimalCount))
}

// DecodeDecimal accumulates the digit nibbles of b into an exact Decimal.
func DecodeDecimal(b []byte, scale int) (Decimal, error) {
	mag := new(big.Int)
	if len(b) == 0 {
		return Decimal{Unscaled: mag, Scale: scale}, nil
	}
	neg := b[0]&0xF0 == 0xF0
	ten := big.NewInt(10)
	digit := new(big.Int)
	for i, c := range b {
		hi, lo := c>>4, c&0x0F
		if i == 0 && neg {
			hi = 0
		}
		for _, d := range [2]byte{hi, lo} {
			if d > 9 {
				return Decimal{}, fmt.Errorf("%w: %#x at byte %d", ErrBadDecimal, d, i)
			}
			mag.Mul(mag, ten)
			mag.Add(mag, digit.SetUint64(uint64(d)))
		}
	}
	if neg {
		mag.Neg(mag)
	}
	return Decimal{Unscaled: mag, Scale: scale}, nil
}
