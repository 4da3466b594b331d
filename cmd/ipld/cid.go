package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/codec/dagjson"
)

func (a *app) newCidCmd() *cobra.Command {
	var hashName string
	cmd := &cobra.Command{
		Use:   "cid [file]",
		Short: "Print the DAG-JSON cid of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hashName == "" {
				hashName = a.cfg.GetString(cfgKeyHash)
			}
			hash, err := cid.HashByName(hashName)
			if err != nil {
				return err
			}
			v, err := a.decodeInput(cmd, args)
			if err != nil {
				return err
			}
			c, _, err := dagjson.Sum(v, hash)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
	cmd.Flags().StringVar(&hashName, "hash", "", "multihash: sha2-256 or blake3 (default from config)")
	return cmd
}
