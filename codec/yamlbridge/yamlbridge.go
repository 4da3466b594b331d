// Package yamlbridge converts between YAML documents and universal values.
//
// Scalars follow their resolved YAML tag (!!null, !!bool, !!int, !!float,
// !!str, !!binary). Links use the local tag !cid:
//
//	parent: !cid bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku
//
// Mapping keys must be unique and resolve to !!str; quote keys such as 1 or
// true to use them as text. Aliases are expanded and merge keys (<<) are
// resolved, with explicit keys taking precedence over merged ones.
package yamlbridge

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/ipld"
)

// TagCid marks a scalar holding a content identifier.
const TagCid = "!cid"

// Decode parses a single YAML document. An empty document is null.
func Decode(data []byte) (*ipld.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlbridge: parse: %w", err)
	}
	if doc.Kind == 0 {
		return ipld.Null(), nil
	}
	return fromNode(&doc)
}

func fromNode(n *yaml.Node) (*ipld.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return ipld.Null(), nil
		}
		return fromNode(n.Content[0])

	case yaml.AliasNode:
		return fromNode(n.Alias)

	case yaml.ScalarNode:
		return fromScalar(n)

	case yaml.SequenceNode:
		items := make([]*ipld.Value, 0, len(n.Content))
		for i, child := range n.Content {
			v, err := fromNode(child)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return ipld.List(items...), nil

	case yaml.MappingNode:
		return fromMapping(n)

	default:
		return nil, fmt.Errorf("yamlbridge: line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func fromMapping(n *yaml.Node) (*ipld.Value, error) {
	m := make(map[string]*ipld.Value, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("yamlbridge: line %d: mapping key must be a scalar", key.Line)
		}
		switch key.ShortTag() {
		case "!!str":
		case "!!merge":
			merges = append(merges, val)
			continue
		default:
			return nil, fmt.Errorf("yamlbridge: line %d: mapping key %q is %s, not a string", key.Line, key.Value, key.ShortTag())
		}
		if _, dup := m[key.Value]; dup {
			return nil, fmt.Errorf("yamlbridge: line %d: duplicate key %q", key.Line, key.Value)
		}
		v, err := fromNode(val)
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", key.Value, err)
		}
		m[key.Value] = v
	}
	for _, src := range merges {
		if err := merge(m, src); err != nil {
			return nil, err
		}
	}
	return ipld.Map(m), nil
}

// merge adds the entries of a << value to m without replacing keys already
// present. A sequence of mappings merges in order, so earlier ones win.
func merge(m map[string]*ipld.Value, src *yaml.Node) error {
	n := src
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		v, err := fromMapping(n)
		if err != nil {
			return err
		}
		for _, e := range v.Entries() {
			if _, ok := m[e.Key]; !ok {
				m[e.Key] = e.Value
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, item := range n.Content {
			inner := item
			for inner.Kind == yaml.AliasNode {
				inner = inner.Alias
			}
			if inner.Kind != yaml.MappingNode {
				return fmt.Errorf("yamlbridge: line %d: merge list entries must be mappings", item.Line)
			}
			if err := merge(m, inner); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("yamlbridge: line %d: merge value must be a mapping or a list of mappings", src.Line)
	}
}

func fromScalar(n *yaml.Node) (*ipld.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return ipld.Null(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("yamlbridge: line %d: %w", n.Line, err)
		}
		return ipld.Bool(b), nil

	case "!!int":
		i, err := parseInt(n.Value)
		if err != nil {
			return nil, fmt.Errorf("yamlbridge: line %d: %w", n.Line, err)
		}
		return ipld.Integer(i), nil

	case "!!float":
		// yaml.v3 resolves plain integers wider than 64 bits as floats.
		if n.Style&yaml.TaggedStyle == 0 && isInteger(n.Value) {
			i, err := parseInt(n.Value)
			if err != nil {
				return nil, fmt.Errorf("yamlbridge: line %d: %w", n.Line, err)
			}
			return ipld.Integer(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("yamlbridge: line %d: %w", n.Line, err)
		}
		return ipld.Float(f), nil

	case "!!binary":
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("yamlbridge: line %d: binary: %w", n.Line, err)
		}
		return ipld.Bytes(data), nil

	case TagCid:
		c, err := cid.Parse(strings.TrimSpace(n.Value))
		if err != nil {
			return nil, fmt.Errorf("yamlbridge: line %d: %w", n.Line, err)
		}
		return ipld.Link(c), nil

	default:
		// !!str, !!timestamp and unknown tags keep their text.
		return ipld.String(n.Value), nil
	}
}

// parseInt accepts YAML integer forms: sign, 0x/0o/0b prefixes and "_"
// separators. Values beyond 128 bits are rejected.
func parseInt(s string) (ipld.Int128, error) {
	clean := strings.ReplaceAll(s, "_", "")
	b, ok := new(big.Int).SetString(clean, 0)
	if !ok {
		return ipld.Int128{}, fmt.Errorf("invalid integer %q", s)
	}
	return ipld.ParseInt128(b.String())
}

// isInteger reports whether s is a signed run of decimal digits, allowing
// "_" separators.
func isInteger(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// Encode renders v as a YAML document with sorted mapping keys.
func Encode(v *ipld.Value) ([]byte, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("yamlbridge: %w", err)
	}
	return out, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func toNode(v *ipld.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case ipld.KindNull:
		return scalar("!!null", "null"), nil

	case ipld.KindBool:
		b, _ := v.AsBool()
		return scalar("!!bool", strconv.FormatBool(b)), nil

	case ipld.KindInteger:
		i, _ := v.AsInt128()
		return scalar("!!int", i.String()), nil

	case ipld.KindFloat:
		f, _ := v.AsFloat()
		return scalar("!!float", formatFloat(f)), nil

	case ipld.KindString:
		s, _ := v.AsString()
		return scalar("!!str", s), nil

	case ipld.KindBytes:
		b, _ := v.AsBytes()
		return scalar("!!binary", base64.StdEncoding.EncodeToString(b)), nil

	case ipld.KindLink:
		c, _ := v.AsLink()
		if !c.Defined() {
			return nil, fmt.Errorf("yamlbridge: link: %w", cid.ErrUndefined)
		}
		return scalar(TagCid, c.String()), nil

	case ipld.KindList:
		elems, _ := v.AsList()
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range elems {
			child, err := toNode(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil

	case ipld.KindMap:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Entries() {
			child, err := toNode(e.Value)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", e.Key, err)
			}
			m.Content = append(m.Content, scalar("!!str", e.Key), child)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("yamlbridge: unsupported kind %s", v.Kind())
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
