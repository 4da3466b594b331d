package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/ipld"
)

// lowerFunc lowers v and renders the native result.
type lowerFunc func(v *ipld.Value, optional bool) (string, error)

func lowerTo[T ipld.Native](render func(T) string) lowerFunc {
	return func(v *ipld.Value, optional bool) (string, error) {
		if optional {
			p, err := ipld.LowerOptional[T](v)
			if err != nil {
				return "", err
			}
			if p == nil {
				return "none", nil
			}
			return render(*p), nil
		}
		x, err := ipld.Lower[T](v)
		if err != nil {
			return "", err
		}
		return render(x), nil
	}
}

func sprint[T any](x T) string { return fmt.Sprint(x) }

var lowerers = map[string]lowerFunc{
	"unit":    lowerTo(func(struct{}) string { return "()" }),
	"bool":    lowerTo(sprint[bool]),
	"int":     lowerTo(sprint[int]),
	"int8":    lowerTo(sprint[int8]),
	"int16":   lowerTo(sprint[int16]),
	"int32":   lowerTo(sprint[int32]),
	"int64":   lowerTo(sprint[int64]),
	"uint":    lowerTo(sprint[uint]),
	"uint8":   lowerTo(sprint[uint8]),
	"uint16":  lowerTo(sprint[uint16]),
	"uint32":  lowerTo(sprint[uint32]),
	"uint64":  lowerTo(sprint[uint64]),
	"uintptr": lowerTo(sprint[uintptr]),
	"int128":  lowerTo(ipld.Int128.String),
	"float32": lowerTo(sprint[float32]),
	"float64": lowerTo(sprint[float64]),
	"string":  lowerTo(func(s string) string { return s }),
	"bytes":   lowerTo(hex.EncodeToString),
	"list":    lowerTo(func(l []*ipld.Value) string { return ipld.List(l...).String() }),
	"map":     lowerTo(func(m map[string]*ipld.Value) string { return ipld.Map(m).String() }),
	"link":    lowerTo(cid.Cid.String),
}

func (a *app) newLowerCmd() *cobra.Command {
	var (
		as       string
		path     string
		optional bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "lower --as <type> [--path a/0/b] [file]",
		Short: "Lower one value to a native type",
		Long: `Lower navigates to a value and converts it to a native type. Integer and
float narrowing wraps silently: 300 lowered as uint8 prints 44.

On a kind mismatch the command exits with status 1 and reports the expected
and found kinds; --json prints them as {"expected":...,"found":...}.

Types: ` + strings.Join(slices.Sorted(maps.Keys(lowerers)), ", ") + `

Example:
  echo '{"a":[{"b":300}]}' | ipld lower --as uint8 --path a/0/b`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lower, ok := lowerers[as]
			if !ok {
				return fmt.Errorf("unknown type %q", as)
			}
			root, err := a.decodeInput(cmd, args)
			if err != nil {
				return err
			}
			v, err := navigate(root, path)
			if err != nil {
				return err
			}

			out, err := lower(v, optional)
			var te *ipld.TypeError
			if errors.As(err, &te) && asJSON {
				data, jerr := json.Marshal(te)
				if jerr != nil {
					return jerr
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return &exitError{code: exitUserError, err: err, silent: true}
			}
			if err != nil {
				return &exitError{code: exitUserError, err: fmt.Errorf("path %q: %w", path, err)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "native type to lower into")
	cmd.Flags().StringVar(&path, "path", "", "slash separated map keys and list indexes")
	cmd.Flags().BoolVar(&optional, "optional", false, "treat null as an absent value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a type mismatch as JSON")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// navigate follows path through maps and lists. A missing map key yields
// null so the lowering reports it.
func navigate(v *ipld.Value, path string) (*ipld.Value, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return v, nil
	}
	for i, seg := range strings.Split(path, "/") {
		switch v.Kind() {
		case ipld.KindMap:
			v, _ = v.Get(seg)
		case ipld.KindList:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("path segment %d: %q is not a list index", i, seg)
			}
			child, ok := v.Index(idx)
			if !ok {
				return nil, fmt.Errorf("path segment %d: index %d out of range (len %d)", i, idx, v.Len())
			}
			v = child
		default:
			return nil, fmt.Errorf("path segment %d: cannot descend into %s", i, v.Kind())
		}
	}
	return v, nil
}
