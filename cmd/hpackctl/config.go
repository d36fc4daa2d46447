package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config holds the tunables a caller would otherwise have to pass as
// flags on every invocation: the initial dynamic table size, the
// default Huffman setting, and a guard against runaway string
// literals during decode. The core hpack package never reads this
// file itself — it only takes these as constructor parameters.
type config struct {
	MaxDynamicTableSize uint32 `yaml:"max_dynamic_table_size"`
	Huffman             bool   `yaml:"huffman"`
	MaxStringLength     int    `yaml:"max_string_length"`
}

func defaultConfig() config {
	return config{
		MaxDynamicTableSize: 4096,
		Huffman:             true,
		MaxStringLength:     16 * 1024 * 1024,
	}
}

// loadConfig reads a YAML config file, falling back to defaultConfig
// for any field the file doesn't set. An empty path is not an error —
// it just means "use the defaults".
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
