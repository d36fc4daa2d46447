package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/hpack07/pkg/hpack"
)

func newDecodeCmd() *cobra.Command {
	var inArg string

	cmd := &cobra.Command{
		Use:   "decode [hex-block]",
		Short: "Decode a hex HPACK block into a YAML header list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				inArg = args[0]
			}

			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("hpackctl: loading config: %w", err)
			}

			raw, err := readHexBlock(inArg)
			if err != nil {
				return err
			}

			dec := hpack.NewDecoder(
				cfg.MaxDynamicTableSize,
				hpack.WithDecoderLogger(newLogger()),
				hpack.WithMaxStringLength(cfg.MaxStringLength),
			)
			headers, err := dec.Decode(raw)
			if err != nil {
				return fmt.Errorf("hpackctl: decode: %w", err)
			}

			entries := make([]yamlHeader, len(headers))
			for i, h := range headers {
				entries[i] = yamlHeader{Name: h.Name, Value: h.Value}
			}

			out, err := yaml.Marshal(entries)
			if err != nil {
				return fmt.Errorf("hpackctl: marshaling result: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	return cmd
}

func readHexBlock(arg string) ([]byte, error) {
	var text string
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("hpackctl: reading block: %w", err)
		}
		text = string(data)
	} else {
		text = arg
	}

	text = strings.TrimSpace(text)
	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("hpackctl: invalid hex block: %w", err)
	}
	return raw, nil
}
