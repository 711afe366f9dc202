// values.go - Value types produced by the field parsers
package column

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Date is a calendar date without time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// TimeOfDay is a TIME field; the format stores hundredths of a second.
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Millisecond)
}

// Duration is the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second + time.Duration(t.Millisecond)*time.Millisecond
}

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Decimal is an exact fixed-point value: Unscaled / 10^Scale.
type Decimal struct {
	Unscaled *big.Int
	Scale    int
}

func (d Decimal) String() string {
	if d.Unscaled == nil {
		return "0"
	}
	digits := new(big.Int).Abs(d.Unscaled).String()
	if d.Scale > 0 {
		if len(digits) <= d.Scale {
			digits = strings.Repeat("0", d.Scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-d.Scale] + "." + digits[len(digits)-d.Scale:]
	}
	if d.Unscaled.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// Float64 returns the nearest float64.
func (d Decimal) Float64() float64 {
	if d.Unscaled == nil {
		return 0
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	f, _ := new(big.Rat).SetFrac(d.Unscaled, den).Float64()
	return f
}

// MarshalJSON emits the exact digits as a JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) { return []byte(d.String()), nil }

// Raw is an undecoded field (GROUP or an unknown type).
type Raw []byte

func (r Raw) String() string { return hex.EncodeToString(r) }

func (r Raw) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
