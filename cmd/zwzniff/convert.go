package main

import (
	"github.com/spf13/cobra"

	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
)

var (
	convertInput  string
	convertOutput string
	convertFormat string
)

// convertCmd is reserved for a future capture-format bridge; it is wired
// into the command tree but not implemented.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between capture formats (reserved, not yet implemented)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return &zwerrors.Error{Category: zwerrors.CategoryNotImplemented, Message: "convert is not implemented"}
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "input file path")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "output file path")
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "output format")
}
