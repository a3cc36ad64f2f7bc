// Package main implements the zwzniff CLI: run/generator/client/proxy for
// live and replayed capture, parse for ad-hoc frame decoding, convert
// reserved for a future capture-format bridge.
package main

import (
	"os"

	"github.com/spf13/cobra"

	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
	"github.com/drunlade/zwzniff/pkg/logger"
)

var (
	logLevel string
	log      logger.Logger = logger.NewStderr("info")
)

var rootCmd = &cobra.Command{
	Use:   "zwzniff",
	Short: "Z-Wave Zniffer/PTI capture, decode, and replay tool",
	Long: `zwzniff captures Z-Wave MAC frames from a Zniffer serial device or a
PTI-instrumented radio, decodes them against a schema-driven command class
catalog, persists them to a frame index, and can replay or proxy captured
traffic to other consumers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.NewStderr(logLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := zwerrors.HandleReturn(log, err)
		os.Exit(int(code))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd, generatorCmd, clientCmd, proxyCmd, parseCmd, convertCmd)
}

func main() {
	Execute()
}
