package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drunlade/zwzniff/decode"
	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
	"github.com/drunlade/zwzniff/schema"
)

var parseInput string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Decode a hex-encoded classic Z-Wave MAC frame and print its field tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(strings.TrimSpace(parseInput))
		if err != nil {
			return zwerrors.New(zwerrors.CategoryFraming, "input is not valid hex")
		}

		model, err := schema.Load()
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategorySchema, "load schema descriptors", err)
		}
		lib := decode.NewStandardLibrary(model)

		chunk := lib.Decode("zwave-mac", raw, 0, len(raw))
		if chunk == nil {
			return zwerrors.New(zwerrors.CategorySchema, "frame did not decode against the MAC schema")
		}

		printChunk(chunk, 0)
		return nil
	},
}

func printChunk(c *decode.DecodedChunk, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s [%d:%d]\n", indent, c.DecoderName, c.Offset, c.Offset+c.Length)
	for _, f := range c.Fields {
		if f.Type == decode.FieldSubFrame && f.Chunk != nil {
			fmt.Printf("%s  %s:\n", indent, f.Name)
			printChunk(f.Chunk, depth+2)
			continue
		}
		comment := ""
		if f.Comment != "" {
			comment = " // " + f.Comment
		}
		fmt.Printf("%s  %s (%d): %s%s\n", indent, f.Name, f.Offset, hex.EncodeToString(f.Value), comment)
	}
}

func init() {
	parseCmd.Flags().StringVar(&parseInput, "input", "", "hex-encoded frame bytes")
	parseCmd.MarkFlagRequired("input")
}
