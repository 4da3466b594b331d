package ipld

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Display Form
// ============================================================
//
// String renders a value in a compact, deterministic debug form:
//
//	null  true  -7  1.5  "text"  x'00ff'  [1 2]  {"a": 1}  link(bafk...)
//
// It is meant for logs and diagnostics, not as an interchange format.

// String returns the display form of v.
func (v *Value) String() string {
	var sb strings.Builder
	writeDisplay(&sb, v)
	return sb.String()
}

func writeDisplay(sb *strings.Builder, v *Value) {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.boolVal))
	case KindInteger:
		sb.WriteString(v.intVal.String())
	case KindFloat:
		sb.WriteString(displayFloat(v.floatVal))
	case KindString:
		sb.WriteString(strconv.Quote(v.strVal))
	case KindBytes:
		sb.WriteString("x'")
		sb.WriteString(hex.EncodeToString(v.bytesVal))
		sb.WriteByte('\'')
	case KindList:
		sb.WriteByte('[')
		for i, e := range v.listVal {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeDisplay(sb, e)
		}
		sb.WriteByte(']')
	case KindMap:
		sb.WriteByte('{')
		for i, e := range v.Entries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteString(": ")
			writeDisplay(sb, e.Value)
		}
		sb.WriteByte('}')
	case KindLink:
		sb.WriteString("link(")
		sb.WriteString(v.linkVal.String())
		sb.WriteByte(')')
	}
}

// displayFloat uses shortest round-trip form and always marks the value as
// a float so it cannot be confused with an integer.
func displayFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	s = strings.ReplaceAll(s, "E", "e")
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
