package ipld

import (
	"bytes"
	"maps"

	"github.com/Neumenon/ipld/cid"
)

// Native is the closed set of Go types with a Lift and a Lower conversion.
type Native interface {
	struct{} | bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 | uintptr |
		Int128 | float32 | float64 |
		string | []byte |
		[]*Value | map[string]*Value |
		cid.Cid
}

// FromUnit lifts the empty struct to null.
func FromUnit(struct{}) *Value {
	return Null()
}

// FromInt lifts any integer width into the integer kind.
func FromInt[T IntType](n T) *Value {
	return Integer(Int128Of(n))
}

// FromFloat lifts any float width into the float kind.
func FromFloat[T FloatType](f T) *Value {
	return Float(float64(f))
}

// CopyBytes lifts a borrowed byte slice, copying it.
func CopyBytes(b []byte) *Value {
	return Bytes(bytes.Clone(b))
}

// CopyMap lifts a borrowed map, copying its top level.
func CopyMap(m map[string]*Value) *Value {
	return Map(maps.Clone(m))
}

// LinkRef lifts a borrowed identifier by copying it. A nil pointer lifts to
// null.
func LinkRef(c *cid.Cid) *Value {
	if c == nil {
		return Null()
	}
	return Link(*c)
}

// Lift converts any Native value into a Value. Slices and maps are moved,
// not copied.
func Lift[T Native](v T) *Value {
	switch x := any(v).(type) {
	case struct{}:
		return FromUnit(x)
	case bool:
		return Bool(x)
	case int:
		return FromInt(x)
	case int8:
		return FromInt(x)
	case int16:
		return FromInt(x)
	case int32:
		return FromInt(x)
	case int64:
		return FromInt(x)
	case uint:
		return FromInt(x)
	case uint8:
		return FromInt(x)
	case uint16:
		return FromInt(x)
	case uint32:
		return FromInt(x)
	case uint64:
		return FromInt(x)
	case uintptr:
		return FromInt(x)
	case Int128:
		return Integer(x)
	case float32:
		return FromFloat(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []byte:
		return Bytes(x)
	case []*Value:
		return List(x...)
	case map[string]*Value:
		return Map(x)
	case cid.Cid:
		return Link(x)
	}
	panic("ipld: unhandled native type")
}
