package jsondoc

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
)

// ErrNotFinite is returned when a NaN or infinite float is converted to a
// Double. JSON has no representation for either.
var ErrNotFinite = errors.New("jsondoc: number is not finite")

// Number is implemented by the numeric variants Int32, UInt32, Int64, UInt64
// and Double.
type Number interface {
	Value
	// Decimal returns the exact decimal value of the number, or nil for a
	// Double whose exponent is beyond what apd.Decimal can hold.
	Decimal() *apd.Decimal

	isNumber()
}

// Int32 is a JSON number that fits in a signed 32 bit integer.
type Int32 int32

// UInt32 is a JSON number that fits in an unsigned 32 bit integer.
type UInt32 uint32

// Int64 is a JSON number that fits in a signed 64 bit integer.
type Int64 int64

// UInt64 is a JSON number that fits in an unsigned 64 bit integer.
type UInt64 uint64

func (Int32) Kind() Kind  { return KindInt32 }
func (UInt32) Kind() Kind { return KindUInt32 }
func (Int64) Kind() Kind  { return KindInt64 }
func (UInt64) Kind() Kind { return KindUInt64 }

func (i Int32) Clone() Value  { return i }
func (i UInt32) Clone() Value { return i }
func (i Int64) Clone() Value  { return i }
func (i UInt64) Clone() Value { return i }

func (i Int32) Accept(v Visitor)  { v.VisitInt32(i) }
func (i UInt32) Accept(v Visitor) { v.VisitUInt32(i) }
func (i Int64) Accept(v Visitor)  { v.VisitInt64(i) }
func (i UInt64) Accept(v Visitor) { v.VisitUInt64(i) }

func (i Int32) Decimal() *apd.Decimal  { return apd.New(int64(i), 0) }
func (i UInt32) Decimal() *apd.Decimal { return apd.New(int64(i), 0) }
func (i Int64) Decimal() *apd.Decimal  { return apd.New(int64(i), 0) }

func (i UInt64) Decimal() *apd.Decimal {
	if i <= math.MaxInt64 {
		return apd.New(int64(i), 0)
	}
	d := new(apd.Decimal)
	// cannot fail, the text is a plain digit run
	_, _, _ = d.SetString(strconv.FormatUint(uint64(i), 10))
	return d
}

func (Int32) isValue()  {}
func (UInt32) isValue() {}
func (Int64) isValue()  {}
func (UInt64) isValue() {}

func (Int32) isNumber()  {}
func (UInt32) isNumber() {}
func (Int64) isNumber()  {}
func (UInt64) isNumber() {}

// NewInteger returns the narrowest integer variant holding the value with the
// given sign and magnitude. Negative values become Int32 or Int64, the others
// UInt32 or UInt64. It reports false if a negative magnitude exceeds 2^63.
func NewInteger(negative bool, magnitude uint64) (Number, bool) {
	if negative {
		switch {
		case magnitude <= -math.MinInt32:
			return Int32(-int64(magnitude)), true
		case magnitude < 1<<63:
			return Int64(-int64(magnitude)), true
		case magnitude == 1<<63:
			return Int64(math.MinInt64), true
		}
		return nil, false
	}
	if magnitude <= math.MaxUint32 {
		return UInt32(magnitude), true
	}
	return UInt64(magnitude), true
}

// integerParts splits an integer variant into sign and magnitude.
func integerParts(n Number) (negative bool, magnitude uint64, ok bool) {
	switch n := n.(type) {
	case Int32:
		if n < 0 {
			return true, uint64(-int64(n)), true
		}
		return false, uint64(n), true
	case Int64:
		if n < 0 {
			return true, uint64(-(n + 1)) + 1, true
		}
		return false, uint64(n), true
	case UInt32:
		return false, uint64(n), true
	case UInt64:
		return false, uint64(n), true
	}
	return false, 0, false
}

// DoubleRepresentation is a decimal number split into its textual
// components: [-]Full[.zeros Fractional][eExponent]. LeadingFractionalZeros
// counts the zeros between the decimal point and the first non-zero digit of
// Fractional.
type DoubleRepresentation struct {
	Negative               bool
	Full                   uint64
	LeadingFractionalZeros uint32
	Fractional             uint64
	Exponent               int64
}

// Double is a JSON number with a fractional part or an exponent. It keeps the
// digits it was built from, so writing it reproduces them exactly.
type Double struct {
	rep DoubleRepresentation
}

// NewDouble returns a Double with the given components.
func NewDouble(rep DoubleRepresentation) Double {
	return Double{rep: rep}
}

// DoubleFromFloat returns the Double holding the shortest decimal form of f
// that parses back to f.
func DoubleFromFloat(f float64) (Double, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Double{}, ErrNotFinite
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	parts, msg := scanNumber(&cursor{input: s})
	if msg != "" {
		return Double{}, errors.New("jsondoc: " + msg)
	}
	return NewDouble(parts.rep), nil
}

// Representation returns the decimal components of d.
func (d Double) Representation() DoubleRepresentation { return d.rep }

// Value returns the nearest float64 to the decimal value of d. Magnitudes
// beyond the float64 range give ±Inf or 0.
func (d Double) Value() float64 {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// Decimal returns the exact decimal value of d, or nil if the exponent is
// out of apd.Decimal's range. Doubles produced by Parse always have one.
func (d Double) Decimal() *apd.Decimal {
	dec, ok := d.decimal()
	if !ok {
		return nil
	}
	return dec
}

func (d Double) decimal() (*apd.Decimal, bool) {
	dec := new(apd.Decimal)
	if _, _, err := dec.SetString(d.String()); err != nil {
		return nil, false
	}
	return dec, true
}

// String returns the canonical text of d.
func (d Double) String() string {
	var b strings.Builder
	writeDouble(&b, d.rep)
	return b.String()
}

func (Double) Kind() Kind         { return KindDouble }
func (d Double) Clone() Value     { return d }
func (d Double) Accept(v Visitor) { v.VisitDouble(d) }
func (Double) isValue()           {}
func (Double) isNumber()          {}

func writeDouble(b *strings.Builder, rep DoubleRepresentation) {
	if rep.Full == 0 && rep.Fractional == 0 {
		b.WriteByte('0')
		return
	}
	if rep.Negative {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatUint(rep.Full, 10))
	if rep.Fractional != 0 {
		b.WriteByte('.')
		for i := uint32(0); i < rep.LeadingFractionalZeros; i++ {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatUint(rep.Fractional, 10))
	}
	if rep.Exponent != 0 {
		b.WriteByte('e')
		b.WriteString(strconv.FormatInt(rep.Exponent, 10))
	}
}
