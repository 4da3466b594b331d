package ipld

import (
	"bytes"
	"maps"
	"math"
	"slices"

	"github.com/Neumenon/ipld/cid"
)

// Value is a universal value. Exactly one payload field is meaningful,
// selected by kind; only the constructors below set payloads.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   Int128
	floatVal float64
	strVal   string
	bytesVal []byte
	linkVal  cid.Cid

	// Container values
	listVal []*Value
	mapVal  map[string]*Value
}

// MapEntry is a key-value pair of a map, used for ordered iteration.
type MapEntry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Integer creates an integer value from the canonical representation.
func Integer(v Int128) *Value {
	return &Value{kind: KindInteger, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// String creates a string value.
func String(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Bytes creates a bytes value. The value takes ownership of v; use
// CopyBytes for a slice the caller keeps using.
func Bytes(v []byte) *Value {
	return &Value{kind: KindBytes, bytesVal: v}
}

// List creates a list value. The value takes ownership of the slice.
func List(values ...*Value) *Value {
	return &Value{kind: KindList, listVal: values}
}

// Map creates a map value. The value takes ownership of m; nil yields an
// empty map.
func Map(m map[string]*Value) *Value {
	if m == nil {
		m = make(map[string]*Value)
	}
	return &Value{kind: KindMap, mapVal: m}
}

// MapOf creates a map value from entries. Later duplicates replace earlier
// ones.
func MapOf(entries ...MapEntry) *Value {
	m := make(map[string]*Value, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return Map(m)
}

// Entry creates a MapEntry for use with MapOf.
func Entry(key string, value *Value) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// Link creates a link value.
func Link(c cid.Cid) *Value {
	return &Value{kind: KindLink, linkVal: c}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// Len returns the length of a list, map, string or bytes value.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindList:
		return len(v.listVal)
	case KindMap:
		return len(v.mapVal)
	case KindString:
		return len(v.strVal)
	case KindBytes:
		return len(v.bytesVal)
	default:
		return 0
	}
}

// Get returns the value stored under key in a map.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindMap {
		return nil, false
	}
	e, ok := v.mapVal[key]
	return e, ok
}

// Index returns the i-th element of a list.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != KindList || i < 0 || i >= len(v.listVal) {
		return nil, false
	}
	return v.listVal[i], true
}

// Keys returns the keys of a map in sorted order.
func (v *Value) Keys() []string {
	if v.Kind() != KindMap {
		return nil
	}
	return slices.Sorted(maps.Keys(v.mapVal))
}

// Entries returns the entries of a map in key order.
func (v *Value) Entries() []MapEntry {
	keys := v.Keys()
	entries := make([]MapEntry, len(keys))
	for i, k := range keys {
		entries[i] = MapEntry{Key: k, Value: v.mapVal[k]}
	}
	return entries
}

// Equal reports whether a and b hold the same kind and payload. Floats
// compare by bit pattern, so NaN equals itself and 0 differs from -0.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInteger:
		return a.intVal == b.intVal
	case KindFloat:
		return math.Float64bits(a.floatVal) == math.Float64bits(b.floatVal)
	case KindString:
		return a.strVal == b.strVal
	case KindBytes:
		return bytes.Equal(a.bytesVal, b.bytesVal)
	case KindList:
		return slices.EqualFunc(a.listVal, b.listVal, Equal)
	case KindMap:
		return maps.EqualFunc(a.mapVal, b.mapVal, Equal)
	case KindLink:
		return a.linkVal.Equals(b.linkVal)
	default:
		return false
	}
}
