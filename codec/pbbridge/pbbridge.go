// Package pbbridge converts between universal values and
// google.protobuf.Value messages.
//
// google.protobuf.Value has no integer, bytes or link kinds, so the mapping
// is lossy in one direction:
//
//	integer  number, only when |i| <= 2^53
//	bytes    base64 string
//	link     struct {"/": "<cid>"}
//
// FromProto is total. Numbers come back as floats unless they are whole
// and within 2^53, in which case they are integers.
package pbbridge

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/ipld"
)

// maxSafeInt is the largest integer a float64 holds exactly.
const maxSafeInt = 1 << 53

// ErrUnsafeInteger is returned by ToProto for integers that do not survive
// the trip through a float64.
var ErrUnsafeInteger = errors.New("pbbridge: integer exceeds 2^53")

// ToProto converts v into a protobuf Value.
func ToProto(v *ipld.Value) (*structpb.Value, error) {
	switch v.Kind() {
	case ipld.KindNull:
		return structpb.NewNullValue(), nil

	case ipld.KindBool:
		b, _ := v.AsBool()
		return structpb.NewBoolValue(b), nil

	case ipld.KindInteger:
		i, _ := v.AsInt128()
		if !i.IsInt64() {
			return nil, fmt.Errorf("%w: %s", ErrUnsafeInteger, i)
		}
		n := int64(i.Lo)
		if n > maxSafeInt || n < -maxSafeInt {
			return nil, fmt.Errorf("%w: %d", ErrUnsafeInteger, n)
		}
		return structpb.NewNumberValue(float64(n)), nil

	case ipld.KindFloat:
		f, _ := v.AsFloat()
		return structpb.NewNumberValue(f), nil

	case ipld.KindString:
		s, _ := v.AsString()
		return structpb.NewStringValue(s), nil

	case ipld.KindBytes:
		b, _ := v.AsBytes()
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(b)), nil

	case ipld.KindLink:
		c, _ := v.AsLink()
		if !c.Defined() {
			return nil, fmt.Errorf("pbbridge: link: %w", cid.ErrUndefined)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"/": structpb.NewStringValue(c.String()),
		}}), nil

	case ipld.KindList:
		elems, _ := v.AsList()
		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(elems))}
		for i, elem := range elems {
			pv, err := ToProto(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list.Values = append(list.Values, pv)
		}
		return structpb.NewListValue(list), nil

	case ipld.KindMap:
		m, _ := v.AsMap()
		st := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(m))}
		for k, elem := range m {
			pv, err := ToProto(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			st.Fields[k] = pv
		}
		return structpb.NewStructValue(st), nil

	default:
		return nil, fmt.Errorf("pbbridge: unsupported kind %s", v.Kind())
	}
}

// FromProto converts a protobuf Value. A nil message, or one with no kind
// set, is null. A struct of the single form {"/": "<cid>"} becomes a link.
func FromProto(pv *structpb.Value) *ipld.Value {
	switch k := pv.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return ipld.Bool(k.BoolValue)

	case *structpb.Value_NumberValue:
		return fromNumber(k.NumberValue)

	case *structpb.Value_StringValue:
		return ipld.String(k.StringValue)

	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		items := make([]*ipld.Value, len(values))
		for i, elem := range values {
			items[i] = FromProto(elem)
		}
		return ipld.List(items...)

	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		if link, ok := linkOf(fields); ok {
			return ipld.Link(link)
		}
		m := make(map[string]*ipld.Value, len(fields))
		for key, elem := range fields {
			m[key] = FromProto(elem)
		}
		return ipld.Map(m)

	default:
		return ipld.Null()
	}
}

// fromNumber keeps negative zero as a float.
func fromNumber(f float64) *ipld.Value {
	if f != math.Trunc(f) || math.Abs(f) > maxSafeInt {
		return ipld.Float(f)
	}
	if f == 0 && math.Signbit(f) {
		return ipld.Float(f)
	}
	return ipld.FromInt(int64(f))
}

func linkOf(fields map[string]*structpb.Value) (cid.Cid, bool) {
	if len(fields) != 1 {
		return cid.Undef, false
	}
	s, ok := fields["/"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return cid.Undef, false
	}
	c, err := cid.Parse(s.StringValue)
	if err != nil {
		return cid.Undef, false
	}
	return c, true
}
