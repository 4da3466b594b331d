package ipld

import "github.com/Neumenon/ipld/cid"

// optional is the three-way counterpart of required: null yields nil,
// kind want yields the converted payload, anything else a *TypeError
// expecting want.
func optional[T any](v *Value, want Kind, get func(*Value) T) (*T, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case want:
		out := get(v)
		return &out, nil
	default:
		return nil, mismatch(want, v)
	}
}

// OptBool lowers a nullable boolean.
func (v *Value) OptBool() (*bool, error) {
	return optional(v, KindBool, boolOf)
}

// OptInt128 lowers a nullable integer at full width.
func (v *Value) OptInt128() (*Int128, error) {
	return optional(v, KindInteger, int128Of)
}

// OptFloat lowers a nullable float64.
func (v *Value) OptFloat() (*float64, error) {
	return optional(v, KindFloat, float64Of)
}

// OptString lowers a nullable string.
func (v *Value) OptString() (*string, error) {
	return optional(v, KindString, stringOf)
}

// OptBytes lowers nullable bytes.
func (v *Value) OptBytes() (*[]byte, error) {
	return optional(v, KindBytes, bytesOf)
}

// OptList lowers a nullable list.
func (v *Value) OptList() (*[]*Value, error) {
	return optional(v, KindList, listOf)
}

// OptMap lowers a nullable map.
func (v *Value) OptMap() (*map[string]*Value, error) {
	return optional(v, KindMap, mapOf)
}

// OptLink lowers a nullable link.
func (v *Value) OptLink() (*cid.Cid, error) {
	return optional(v, KindLink, linkOf)
}

// OptInt lowers a nullable integer into T with the same wrapping as ToInt.
func OptInt[T IntType](v *Value) (*T, error) {
	return optional(v, KindInteger, intOf[T])
}

// OptFloat lowers a nullable float into T with the same rounding as ToFloat.
func OptFloat[T FloatType](v *Value) (*T, error) {
	return optional(v, KindFloat, floatOf[T])
}

// LowerOptional converts v into a *T for any Native T, mapping null to nil.
// For T = struct{} null is the only kind and always yields nil.
func LowerOptional[T Native](v *Value) (*T, error) {
	want := kindFor[T]()
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case want:
		out, err := Lower[T](v)
		if err != nil {
			return nil, err
		}
		return &out, nil
	default:
		return nil, mismatch(want, v)
	}
}
