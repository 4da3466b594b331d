package main

import (
	"github.com/spf13/cobra"
)

func (a *app) newConvertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert --to json|yaml [file]",
		Short: "Re-encode a document as JSON or YAML",
		Long: `Convert decodes a document and writes it in the requested format. Bytes and
links survive both ways: DAG-JSON uses {"/": ...} forms, YAML uses !!binary
and !cid tags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.decodeInput(cmd, args)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), v, to)
		},
	}
	cmd.Flags().StringVar(&to, "to", formatJSON, "output format: json or yaml")
	return cmd
}
