// Package ipld converts between the universal value model and native Go
// types.
//
// # Data Model
//
// A *Value is a closed tagged union with exactly one of these kinds:
//
//	null     absence of a value
//	bool     true / false
//	integer  128-bit two's complement (Int128)
//	float    float64
//	string   UTF-8 text
//	bytes    raw byte sequence
//	list     ordered []*Value
//	map      string keys to *Value, iterated in key order
//	link     cid.Cid content identifier
//
// A nil *Value reads as null.
//
// # Conversions
//
// Lifting a native value into a *Value is total:
//
//	ipld.Bool(true)
//	ipld.FromInt(int16(300))
//	ipld.Lift([]byte("raw"))
//
// Lowering is partial and reports a *TypeError naming the expected and the
// found kind:
//
//	b, err := v.AsBool()
//	n, err := ipld.ToInt[uint8](v)
//	s, err := ipld.Lower[string](v)
//
// Optional lowering maps null to a nil pointer:
//
//	p, err := ipld.OptInt[int64](v) // p == nil when v is null
//
// # Numeric Width
//
// Every integer width shares the integer kind, every float width the float
// kind. Lowering into a narrower type keeps the low-order bits (or rounds
// to float32) without any range check: ToInt[uint8] of 300 is 44. Callers
// that need range validation must compare against the Int128 themselves.
package ipld
