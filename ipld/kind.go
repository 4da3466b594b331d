package ipld

import (
	"fmt"

	"github.com/Neumenon/ipld/cid"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindLink
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindNull; k <= KindLink; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("ipld: unknown kind %q", text)
	}
	*k = parsed
	return nil
}

// Zero returns a representative value of kind k carrying an empty payload.
// It lets a diagnostic show what was found without holding the original.
func (k Kind) Zero() *Value {
	switch k {
	case KindBool:
		return Bool(false)
	case KindInteger:
		return Integer(Int128{})
	case KindFloat:
		return Float(0)
	case KindString:
		return String("")
	case KindBytes:
		return Bytes(nil)
	case KindList:
		return List()
	case KindMap:
		return Map(nil)
	case KindLink:
		return Link(cid.Undef)
	default:
		return Null()
	}
}

// KindOf returns the kind of v. It reads only the tag.
func KindOf(v *Value) Kind {
	return v.Kind()
}
