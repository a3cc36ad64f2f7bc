package main

import (
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drunlade/zwzniff/bus"
	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
	"github.com/drunlade/zwzniff/region"
	"github.com/drunlade/zwzniff/source"
)

const (
	cmdGetVersion = 0x01
	cmdSetRegion  = 0x02
	cmdStart      = 0x04
)

var (
	runSerialPort string
	runRegion     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Capture from a Zniffer serial device and serve PTI consumers",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, ok := region.FromToken(runRegion)
		if !ok {
			return zwerrors.New(zwerrors.CategoryFraming, fmt.Sprintf("unknown region %q", runRegion))
		}

		port, err := source.OpenSerial(runSerialPort)
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "open serial port", err)
		}
		defer port.Close()

		nativeRegion, _ := r.ToNative()
		if err := sendZnifferCommand(port, cmdGetVersion, nil); err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "send GetVersion", err)
		}
		if err := sendZnifferCommand(port, cmdSetRegion, []byte{nativeRegion}); err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "send SetRegion", err)
		}
		if err := sendZnifferCommand(port, cmdStart, nil); err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "send Start", err)
		}

		b := bus.New(64, func(id uuid.UUID, skipped int) {
			log.Warn("subscriber %s lagged, dropped %d frames", id, skipped)
		})

		stop := make(chan struct{})
		errCh := make(chan error, 1)
		go func() {
			errCh <- source.PumpZniffer(port, b, log, stop)
		}()

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", 4905))
		if err != nil {
			close(stop)
			return zwerrors.Wrap(zwerrors.CategoryTransport, "listen for PTI consumers", err)
		}
		defer ln.Close()
		go serveConsumers(ln, b, "pti")

		return <-errCh
	},
}

// sendZnifferCommand writes a 0x23 | cmd | length | payload request frame.
func sendZnifferCommand(w interface{ Write([]byte) (int, error) }, cmd byte, payload []byte) error {
	frameBytes := append([]byte{0x23, cmd, byte(len(payload))}, payload...)
	_, err := w.Write(frameBytes)
	return err
}

func init() {
	runCmd.Flags().StringVar(&runSerialPort, "serial", "", "serial device path")
	runCmd.Flags().StringVar(&runRegion, "region", "", "radio region (eu, us, anz, hk, in, il, ru, cn, uslr, eulr, jp, kr)")
	runCmd.MarkFlagRequired("serial")
	runCmd.MarkFlagRequired("region")
}
