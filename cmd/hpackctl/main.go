// Command hpackctl drives the pkg/hpack codec from the command line:
// encode a YAML header list into a hex-dumped draft-07 header block,
// or decode a hex block back into YAML. It exists mainly to hand-build
// the interop fixtures roundtrip_test.go checks against, and as a
// manual inspection tool for a single block.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hpackctl",
		Short:         "Encode and decode draft-07 HPACK header blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file (defaults: table size 4096, huffman on)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log table mutations at debug level")

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	return root
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
