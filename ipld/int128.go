package ipld

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IntType is every integer type that shares the integer kind.
type IntType interface {
	Signed | Unsigned
}

// FloatType is every float type that shares the float kind.
type FloatType interface {
	~float32 | ~float64
}

// ErrInt128Range is returned when parsing a number that does not fit in
// 128 bits.
var ErrInt128Range = errors.New("ipld: integer out of 128-bit range")

// Int128 is the canonical integer payload: a 128-bit two's complement
// number, value = Hi*2^64 + Lo.
type Int128 struct {
	Hi int64
	Lo uint64
}

var (
	MaxInt128 = Int128{Hi: math.MaxInt64, Lo: math.MaxUint64}
	MinInt128 = Int128{Hi: math.MinInt64, Lo: 0}

	mask64  = new(big.Int).SetUint64(math.MaxUint64)
	mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minBig  = MinInt128.Big()
	maxBig  = MaxInt128.Big()
)

// Int128Of widens any integer to Int128. Exact for every width.
func Int128Of[T IntType](n T) Int128 {
	if n < 0 {
		return Int128{Hi: -1, Lo: uint64(int64(n))}
	}
	return Int128{Lo: uint64(n)}
}

// Truncate narrows i to T by keeping the low-order bits. Values outside
// T's range wrap; this never fails.
func Truncate[T IntType](i Int128) T {
	return T(i.Lo)
}

// Int128FromBig converts b, wrapping modulo 2^128.
func Int128FromBig(b *big.Int) Int128 {
	m := new(big.Int).And(b, mask128)
	lo := new(big.Int).And(m, mask64).Uint64()
	hi := new(big.Int).Rsh(m, 64).Uint64()
	return Int128{Hi: int64(hi), Lo: lo}
}

// ParseInt128 parses a base-10 integer. Unlike narrowing, parsing rejects
// numbers that do not fit.
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, fmt.Errorf("ipld: invalid integer %q", s)
	}
	if b.Cmp(minBig) < 0 || b.Cmp(maxBig) > 0 {
		return Int128{}, fmt.Errorf("%w: %s", ErrInt128Range, s)
	}
	return Int128FromBig(b), nil
}

// Big returns i as a big.Int.
func (i Int128) Big() *big.Int {
	b := big.NewInt(i.Hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(i.Lo))
}

// String returns the base-10 representation.
func (i Int128) String() string {
	if i.IsInt64() {
		return fmt.Sprint(int64(i.Lo))
	}
	return i.Big().String()
}

// Sign returns -1, 0 or +1.
func (i Int128) Sign() int {
	switch {
	case i.Hi < 0:
		return -1
	case i.Hi == 0 && i.Lo == 0:
		return 0
	default:
		return 1
	}
}

// Cmp compares i and o and returns -1, 0 or +1.
func (i Int128) Cmp(o Int128) int {
	switch {
	case i.Hi < o.Hi:
		return -1
	case i.Hi > o.Hi:
		return 1
	case i.Lo < o.Lo:
		return -1
	case i.Lo > o.Lo:
		return 1
	default:
		return 0
	}
}

// IsInt64 reports whether i fits in an int64 without wrapping.
func (i Int128) IsInt64() bool {
	return (i.Hi == 0 && i.Lo <= math.MaxInt64) || (i.Hi == -1 && i.Lo > math.MaxInt64)
}

// IsUint64 reports whether i fits in a uint64 without wrapping.
func (i Int128) IsUint64() bool {
	return i.Hi == 0
}

// Float64 returns the nearest float64.
func (i Int128) Float64() float64 {
	if i.IsInt64() {
		return float64(int64(i.Lo))
	}
	f, _ := new(big.Float).SetInt(i.Big()).Float64()
	return f
}
