package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/hpack07/pkg/hpack"
)

// yamlHeader is the on-disk/on-stdin representation of one header pair
// for the encode/decode subcommands' YAML surface.
type yamlHeader struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func newEncodeCmd() *cobra.Command {
	var inPath string
	var huffmanOverride string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a YAML header list into a hex HPACK block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				inPath = args[0]
			}

			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("hpackctl: loading config: %w", err)
			}

			huffman := cfg.Huffman
			switch huffmanOverride {
			case "true":
				huffman = true
			case "false":
				huffman = false
			}

			headers, err := readHeaders(inPath)
			if err != nil {
				return err
			}

			enc := hpack.NewEncoder(cfg.MaxDynamicTableSize, hpack.WithEncoderLogger(newLogger()))
			block, err := enc.Encode(headers, huffman)
			if err != nil {
				return fmt.Errorf("hpackctl: encode: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(block))
			return nil
		},
	}

	cmd.Flags().StringVar(&huffmanOverride, "huffman", "", "override the config's huffman setting: true or false")
	return cmd
}

func readHeaders(path string) ([]hpack.Header, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("hpackctl: reading headers: %w", err)
	}

	var entries []yamlHeader
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("hpackctl: parsing header YAML: %w", err)
	}

	headers := make([]hpack.Header, len(entries))
	for i, e := range entries {
		headers[i] = hpack.NewHeader(e.Name, e.Value)
	}
	return headers, nil
}
