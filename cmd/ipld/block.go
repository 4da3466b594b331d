// Block store commands: put, get and stat.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Neumenon/ipld/cid"
)

func (a *app) newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put [file]",
		Short: "Store a document and print its cid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.decodeInput(cmd, args)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := s.Put(cmd.Context(), v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func (a *app) newGetCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "get <cid>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cid.Parse(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			v, err := s.Get(cmd.Context(), c)
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), v, to)
		},
	}
	cmd.Flags().StringVar(&to, "to", formatJSON, "output format: json or yaml")
	return cmd
}

func (a *app) newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <cid>",
		Short: "Describe a stored block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cid.Parse(args[0])
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.Stat(cmd.Context(), c)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "cid:\t%s\n", info.Cid)
			fmt.Fprintf(w, "size:\t%s\n", humanize.Bytes(uint64(info.Size)))
			fmt.Fprintf(w, "stored:\t%s (%s)\n", humanize.Bytes(uint64(info.Stored)), info.Compression)
			return w.Flush()
		},
	}
}
