// Config loading for the ipld CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Neumenon/ipld/cid"
	"github.com/Neumenon/ipld/internal/blockstore"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix       = "IPLD"
	envConfigDir    = "IPLD_CONFIG_DIR"
	defaultDirName  = ".ipld"
	defaultStoreDB  = "blocks.db"
	cfgKeyStorePath = "store_path"
	cfgKeyCompress  = "compression"
	cfgKeyHash      = "hash"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# ipld CLI configuration

# Block store database (default: <config dir>/blocks.db)
# store_path:

# Block compression at rest: zstd, xz or none
compression: zstd

# Multihash for new cids: sha2-256 or blake3
hash: sha2-256

# Logging: debug, info, warn, error; text or json
log_level: warn
log_format: text
`

// resolveConfigDir applies --config-dir > IPLD_CONFIG_DIR > $HOME/.ipld.
func resolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(envConfigDir); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// loadConfig reads config.yaml from configDir, creating the directory and
// a default file on first run. Environment variables prefixed IPLD_
// override the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyStorePath, filepath.Join(configDir, defaultStoreDB))
	v.SetDefault(cfgKeyCompress, string(blockstore.CompressionZstd))
	v.SetDefault(cfgKeyHash, "sha2-256")
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// storeOptions reads the block store settings from v.
func storeOptions(v *viper.Viper) (blockstore.Options, error) {
	hash, err := cid.HashByName(v.GetString(cfgKeyHash))
	if err != nil {
		return blockstore.Options{}, err
	}
	comp, err := blockstore.ParseCompression(v.GetString(cfgKeyCompress))
	if err != nil {
		return blockstore.Options{}, err
	}
	return blockstore.Options{Hash: hash, Compression: comp}, nil
}
