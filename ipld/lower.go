package ipld

import "github.com/Neumenon/ipld/cid"

// required unwraps v when it has kind want, and fails with a *TypeError
// otherwise. Every Lower conversion goes through here.
func required[T any](v *Value, want Kind, get func(*Value) T) (T, error) {
	if v.Kind() != want {
		var zero T
		return zero, mismatch(want, v)
	}
	return get(v), nil
}

func boolOf(v *Value) bool { return v.boolVal }
func int128Of(v *Value) Int128 { return v.intVal }
func float64Of(v *Value) float64 { return v.floatVal }
func stringOf(v *Value) string { return v.strVal }
func bytesOf(v *Value) []byte { return v.bytesVal }
func listOf(v *Value) []*Value { return v.listVal }
func mapOf(v *Value) map[string]*Value { return v.mapVal }
func linkOf(v *Value) cid.Cid { return v.linkVal }
func intOf[T IntType](v *Value) T { return Truncate[T](v.intVal) }
func floatOf[T FloatType](v *Value) T { return T(v.floatVal) }

// AsUnit succeeds only for null.
func (v *Value) AsUnit() error {
	if v.Kind() != KindNull {
		return mismatch(KindNull, v)
	}
	return nil
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	return required(v, KindBool, boolOf)
}

// AsInt128 returns the integer value at full width.
func (v *Value) AsInt128() (Int128, error) {
	return required(v, KindInteger, int128Of)
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	return required(v, KindFloat, float64Of)
}

// AsString returns the string value.
func (v *Value) AsString() (string, error) {
	return required(v, KindString, stringOf)
}

// AsBytes returns the bytes value. The slice is shared with v.
func (v *Value) AsBytes() ([]byte, error) {
	return required(v, KindBytes, bytesOf)
}

// AsList returns the list elements. The slice is shared with v.
func (v *Value) AsList() ([]*Value, error) {
	return required(v, KindList, listOf)
}

// AsMap returns the map entries. The map is shared with v.
func (v *Value) AsMap() (map[string]*Value, error) {
	return required(v, KindMap, mapOf)
}

// AsLink returns the link target.
func (v *Value) AsLink() (cid.Cid, error) {
	return required(v, KindLink, linkOf)
}

// ToInt lowers an integer value into T, keeping the low-order bits. Values
// outside T's range wrap silently; only a kind mismatch fails.
func ToInt[T IntType](v *Value) (T, error) {
	return required(v, KindInteger, intOf[T])
}

// ToFloat lowers a float value into T. Narrowing to float32 rounds and may
// overflow to infinity; only a kind mismatch fails.
func ToFloat[T FloatType](v *Value) (T, error) {
	return required(v, KindFloat, floatOf[T])
}

// Lower converts v into any Native type.
func Lower[T Native](v *Value) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *struct{}:
		err = v.AsUnit()
	case *bool:
		*p, err = v.AsBool()
	case *int:
		*p, err = ToInt[int](v)
	case *int8:
		*p, err = ToInt[int8](v)
	case *int16:
		*p, err = ToInt[int16](v)
	case *int32:
		*p, err = ToInt[int32](v)
	case *int64:
		*p, err = ToInt[int64](v)
	case *uint:
		*p, err = ToInt[uint](v)
	case *uint8:
		*p, err = ToInt[uint8](v)
	case *uint16:
		*p, err = ToInt[uint16](v)
	case *uint32:
		*p, err = ToInt[uint32](v)
	case *uint64:
		*p, err = ToInt[uint64](v)
	case *uintptr:
		*p, err = ToInt[uintptr](v)
	case *Int128:
		*p, err = v.AsInt128()
	case *float32:
		*p, err = ToFloat[float32](v)
	case *float64:
		*p, err = v.AsFloat()
	case *string:
		*p, err = v.AsString()
	case *[]byte:
		*p, err = v.AsBytes()
	case *[]*Value:
		*p, err = v.AsList()
	case *map[string]*Value:
		*p, err = v.AsMap()
	case *cid.Cid:
		*p, err = v.AsLink()
	default:
		panic("ipld: unhandled native type")
	}
	return out, err
}

// kindFor returns the kind a Native type lowers from.
func kindFor[T Native]() Kind {
	var zero T
	switch any(zero).(type) {
	case struct{}:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr, Int128:
		return KindInteger
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []byte:
		return KindBytes
	case []*Value:
		return KindList
	case map[string]*Value:
		return KindMap
	case cid.Cid:
		return KindLink
	}
	panic("ipld: unhandled native type")
}
