package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Neumenon/ipld/ipld"
)

func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the kind tree of a document",
		Long: `Inspect decodes a JSON or YAML document and prints one line per value,
showing its kind and, for scalars, its display form.

Example:
  echo '{"a":[1,null]}' | ipld inspect`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.decodeInput(cmd, args)
			if err != nil {
				return err
			}
			writeTree(cmd.OutOrStdout(), v, 0, "")
			return nil
		},
	}
}

func writeTree(w io.Writer, v *ipld.Value, depth int, label string) {
	indent := strings.Repeat("  ", depth)
	switch v.Kind() {
	case ipld.KindNull:
		fmt.Fprintf(w, "%s%snull\n", indent, label)
	case ipld.KindList:
		fmt.Fprintf(w, "%s%slist (%d)\n", indent, label, v.Len())
		elems, _ := v.AsList()
		for i, elem := range elems {
			writeTree(w, elem, depth+1, fmt.Sprintf("[%d]: ", i))
		}
	case ipld.KindMap:
		fmt.Fprintf(w, "%s%smap (%d)\n", indent, label, v.Len())
		for _, e := range v.Entries() {
			writeTree(w, e.Value, depth+1, strconv.Quote(e.Key)+": ")
		}
	default:
		fmt.Fprintf(w, "%s%s%s %s\n", indent, label, v.Kind(), v)
	}
}
