package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/drunlade/zwzniff/capture"
	"github.com/drunlade/zwzniff/pkg/config"
	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
	"github.com/drunlade/zwzniff/pti"
)

var (
	generatorFromFile string
	generatorDelayMS  int
	generatorAddress  string
)

var generatorCmd = &cobra.Command{
	Use:   "generator",
	Short: "Replay a capture file to a single consumer with pacing",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(generatorFromFile)
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "open capture file", err)
		}
		defer f.Close()

		rd, err := capture.Open(f)
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategoryFraming, "read capture preamble", err)
		}

		if generatorAddress == "" {
			generatorAddress = fmt.Sprintf(":%d", config.DefaultGeneratorPort)
		}
		ln, err := net.Listen("tcp", generatorAddress)
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "listen for generator consumer", err)
		}
		defer ln.Close()

		log.Info("generator: waiting for one consumer on %s", generatorAddress)
		conn, err := ln.Accept()
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "accept generator consumer", err)
		}
		defer conn.Close()

		delay := time.Duration(generatorDelayMS) * time.Millisecond
		p := pti.New()

		return rd.ForEach(func(rec *capture.Record) error {
			if rec.APIType != capture.APITypePTI {
				return nil
			}
			consumeGeneratorRecord(p, rec.Payload, conn)
			time.Sleep(delay)
			return nil
		})
	},
}

func consumeGeneratorRecord(p *pti.Parser, payload []byte, conn net.Conn) {
	for _, fr := range p.Feed(payload) {
		env, err := pti.Emit(fr)
		if err != nil {
			log.Debug("generator: skipping unencodable frame: %v", err)
			continue
		}
		if _, err := conn.Write(env); err != nil {
			return
		}
	}
}

func init() {
	generatorCmd.Flags().StringVar(&generatorFromFile, "from-file", "", "capture file to replay")
	generatorCmd.Flags().IntVar(&generatorDelayMS, "delay", 0, "pacing delay between records, in milliseconds")
	generatorCmd.Flags().StringVar(&generatorAddress, "address", "", "listen address (default :9000)")
	generatorCmd.MarkFlagRequired("from-file")
}
