// Package dagjson encodes and decodes universal values as JSON.
//
// The mapping follows the DAG-JSON conventions:
//
//	null, true/false   JSON literals
//	integer            JSON number without fraction or exponent, exact to 128 bits
//	float              JSON number that always carries "." or an exponent
//	string             JSON string
//	bytes              {"/": {"bytes": "<base64, no padding>"}}
//	link               {"/": "<cid>"}
//	list, map          JSON array, JSON object with sorted keys
//
// Encoding is deterministic, so the encoded bytes can be hashed into a Cid.
package dagjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/ipld"
)

var (
	// ErrNonFinite is returned when encoding a NaN or infinite float.
	ErrNonFinite = errors.New("dagjson: NaN/Infinity not allowed")
	// ErrReservedMap is returned when encoding a map that would read back
	// as a link or bytes.
	ErrReservedMap = errors.New(`dagjson: map collides with a reserved {"/": ...} form`)
)

// ============================================================
// Encode
// ============================================================

// Encode returns the deterministic JSON form of v.
func Encode(v *ipld.Value) ([]byte, error) {
	jsonVal, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jsonVal); err != nil {
		return nil, fmt.Errorf("dagjson: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Sum encodes v and returns the DagJSON Cid of the encoding.
func Sum(v *ipld.Value, hash uint64) (cid.Cid, []byte, error) {
	data, err := Encode(v)
	if err != nil {
		return cid.Undef, nil, err
	}
	c, err := cid.Sum(data, cid.DagJSON, hash)
	if err != nil {
		return cid.Undef, nil, err
	}
	return c, data, nil
}

func toJSONValue(v *ipld.Value) (any, error) {
	switch v.Kind() {
	case ipld.KindNull:
		return nil, nil

	case ipld.KindBool:
		b, _ := v.AsBool()
		return b, nil

	case ipld.KindInteger:
		i, _ := v.AsInt128()
		return json.Number(i.String()), nil

	case ipld.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrNonFinite
		}
		return json.Number(formatFloat(f)), nil

	case ipld.KindString:
		s, _ := v.AsString()
		return s, nil

	case ipld.KindBytes:
		b, _ := v.AsBytes()
		return map[string]any{
			"/": map[string]any{"bytes": base64.RawStdEncoding.EncodeToString(b)},
		}, nil

	case ipld.KindList:
		elems, _ := v.AsList()
		items := make([]any, 0, len(elems))
		for i, elem := range elems {
			jsonElem, err := toJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, jsonElem)
		}
		return items, nil

	case ipld.KindMap:
		m, _ := v.AsMap()
		if isReserved(m) {
			return nil, ErrReservedMap
		}
		obj := make(map[string]any, len(m))
		for k, elem := range m {
			jsonVal, err := toJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = jsonVal
		}
		return obj, nil

	case ipld.KindLink:
		c, _ := v.AsLink()
		if !c.Defined() {
			return nil, fmt.Errorf("dagjson: link: %w", cid.ErrUndefined)
		}
		return map[string]any{"/": c.String()}, nil

	default:
		return nil, fmt.Errorf("dagjson: unsupported kind %s", v.Kind())
	}
}

// isReserved reports whether m has the shape fromReserved claims: a lone
// "/" key holding a string, or holding exactly {"bytes": <string>}.
func isReserved(m map[string]*ipld.Value) bool {
	if len(m) != 1 {
		return false
	}
	slash, ok := m["/"]
	if !ok {
		return false
	}
	switch slash.Kind() {
	case ipld.KindString:
		return true
	case ipld.KindMap:
		inner, _ := slash.AsMap()
		b, ok := inner["bytes"]
		return ok && len(inner) == 1 && b.Kind() == ipld.KindString
	default:
		return false
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ============================================================
// Decode
// ============================================================

// Decode parses a single JSON document into a value.
func Decode(data []byte) (*ipld.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("dagjson: parse: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("dagjson: trailing data after document")
	}
	return fromJSONValue(raw)
}

func fromJSONValue(raw any) (*ipld.Value, error) {
	switch val := raw.(type) {
	case nil:
		return ipld.Null(), nil

	case bool:
		return ipld.Bool(val), nil

	case json.Number:
		return parseNumber(string(val))

	case string:
		return ipld.String(val), nil

	case []any:
		items := make([]*ipld.Value, 0, len(val))
		for i, elem := range val {
			v, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return ipld.List(items...), nil

	case map[string]any:
		if v, ok, err := fromReserved(val); ok || err != nil {
			return v, err
		}
		m := make(map[string]*ipld.Value, len(val))
		for k, elem := range val {
			v, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m[k] = v
		}
		return ipld.Map(m), nil

	default:
		return nil, fmt.Errorf("dagjson: unsupported JSON type %T", raw)
	}
}

func parseNumber(s string) (*ipld.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		i, err := ipld.ParseInt128(s)
		if err != nil {
			return nil, fmt.Errorf("dagjson: %w", err)
		}
		return ipld.Integer(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("dagjson: invalid float %q: %w", s, err)
	}
	return ipld.Float(f), nil
}

// fromReserved decodes the single-key {"/": ...} forms. ok is false when
// obj is an ordinary map.
func fromReserved(obj map[string]any) (*ipld.Value, bool, error) {
	if len(obj) != 1 {
		return nil, false, nil
	}
	slash, found := obj["/"]
	if !found {
		return nil, false, nil
	}
	switch inner := slash.(type) {
	case string:
		c, err := cid.Parse(inner)
		if err != nil {
			return nil, true, fmt.Errorf("dagjson: link: %w", err)
		}
		return ipld.Link(c), true, nil
	case map[string]any:
		b64, isBytes := inner["bytes"].(string)
		if !isBytes || len(inner) != 1 {
			return nil, false, nil
		}
		data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(b64, "="))
		if err != nil {
			return nil, true, fmt.Errorf("dagjson: bytes: %w", err)
		}
		return ipld.Bytes(data), true, nil
	default:
		return nil, false, nil
	}
}
