package main

import (
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drunlade/zwzniff/bus"
	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
	"github.com/drunlade/zwzniff/pkg/config"
	"github.com/drunlade/zwzniff/source"
)

var (
	proxyAddress  string
	proxyProtocol string
	proxySerial   string
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Accept PTI or zniff-rs consumers and fan out frames from a source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if proxyProtocol != "pti" && proxyProtocol != "zniff-rs" {
			return zwerrors.New(zwerrors.CategoryFraming, fmt.Sprintf("unsupported protocol %q", proxyProtocol))
		}
		if proxyAddress == "" {
			proxyAddress = fmt.Sprintf(":%d", config.DefaultPTIPort)
		}

		b := bus.New(64, func(id uuid.UUID, skipped int) {
			log.Warn("subscriber %s lagged, dropped %d frames", id, skipped)
		})

		stop := make(chan struct{})
		errCh := make(chan error, 1)
		if proxySerial != "" {
			port, err := source.OpenSerial(proxySerial)
			if err != nil {
				return zwerrors.Wrap(zwerrors.CategoryTransport, "open serial port", err)
			}
			defer port.Close()
			go func() { errCh <- source.PumpZniffer(port, b, log, stop) }()
		}

		ln, err := net.Listen("tcp", proxyAddress)
		if err != nil {
			close(stop)
			return zwerrors.Wrap(zwerrors.CategoryTransport, "listen for consumers", err)
		}
		defer ln.Close()

		go serveConsumers(ln, b, proxyProtocol)

		if proxySerial == "" {
			<-stop
			return nil
		}
		return <-errCh
	},
}

func init() {
	proxyCmd.Flags().StringVar(&proxyAddress, "address", "", "listen address (default :4905)")
	proxyCmd.Flags().StringVar(&proxyProtocol, "protocol", "pti", "consumer protocol: pti or zniff-rs")
	proxyCmd.Flags().StringVar(&proxySerial, "serial", "", "optional serial device to source frames from")
}
