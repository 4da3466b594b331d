package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Neumenon/ipld/codec/dagjson"
	"github.com/Neumenon/ipld/codec/yamlbridge"
	"github.com/Neumenon/ipld/ipld"
)

const (
	formatAuto = "auto"
	formatJSON = "json"
	formatYAML = "yaml"
)

// readInput returns the bytes of the file named by args[0], or stdin when
// there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", sysErr(fmt.Errorf("read stdin: %w", err))
		}
		return data, "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, args[0], nil
}

// decodeInput reads and decodes the command input. In auto mode .yaml and
// .yml files are YAML; anything else is tried as JSON first.
func (a *app) decodeInput(cmd *cobra.Command, args []string) (*ipld.Value, error) {
	data, name, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}

	switch a.format {
	case formatJSON:
		return dagjson.Decode(data)
	case formatYAML:
		return yamlbridge.Decode(data)
	case formatAuto:
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			return yamlbridge.Decode(data)
		case ".json":
			return dagjson.Decode(data)
		}
		v, jsonErr := dagjson.Decode(data)
		if jsonErr == nil {
			return v, nil
		}
		v, err := yamlbridge.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("input is neither JSON (%v) nor YAML (%w)", jsonErr, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown input format %q (valid: auto, json, yaml)", a.format)
	}
}

// writeValue encodes v as json or yaml and writes it with a trailing newline.
func writeValue(w io.Writer, v *ipld.Value, to string) error {
	var (
		out []byte
		err error
	)
	switch to {
	case formatJSON:
		out, err = dagjson.Encode(v)
		if err == nil {
			out = append(out, '\n')
		}
	case formatYAML:
		out, err = yamlbridge.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (valid: json, yaml)", to)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
