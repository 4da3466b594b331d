// Root command for the ipld CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Neumenon/ipld/internal/blockstore"
	"github.com/Neumenon/ipld/internal/logging"
)

// app holds flag values and the loaded configuration shared by subcommands.
type app struct {
	configDir string
	storePath string
	format    string

	cfg *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ipld",
		Short:         "Inspect, convert and store IPLD data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $HOME/.ipld)")
	flags.StringVar(&a.storePath, "store", "", "block store database (overrides store_path)")
	flags.StringVar(&a.format, "format", formatAuto, "input format: auto, json or yaml")

	root.AddCommand(
		a.newInspectCmd(),
		a.newLowerCmd(),
		a.newCidCmd(),
		a.newPutCmd(),
		a.newGetCmd(),
		a.newStatCmd(),
		a.newConvertCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	dir, err := resolveConfigDir(a.configDir)
	if err != nil {
		return sysErr(err)
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return sysErr(err)
	}
	if err := cfg.BindPFlag(cfgKeyStorePath, cmd.Root().PersistentFlags().Lookup("store")); err != nil {
		return sysErr(err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.GetString(cfgKeyLogFormat))
	if err != nil {
		return err
	}
	logging.InitLogger(cmd.ErrOrStderr(), level, format)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithCommand(ctx, cmd.Name()))
	logging.DebugContext(cmd.Context(), "config loaded", "dir", dir, "file", cfg.ConfigFileUsed())
	return nil
}

// openStore opens the configured SQLite block store. The caller closes it.
func (a *app) openStore(ctx context.Context) (*blockstore.SQLite, error) {
	opts, err := storeOptions(a.cfg)
	if err != nil {
		return nil, err
	}
	s, err := blockstore.OpenSQLite(ctx, a.cfg.GetString(cfgKeyStorePath), opts)
	if err != nil {
		return nil, sysErr(fmt.Errorf("open block store: %w", err))
	}
	return s, nil
}
