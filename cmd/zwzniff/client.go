package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drunlade/zwzniff/bus"
	"github.com/drunlade/zwzniff/decode"
	"github.com/drunlade/zwzniff/pkg/config"
	zwerrors "github.com/drunlade/zwzniff/pkg/errors"
	"github.com/drunlade/zwzniff/schema"
	"github.com/drunlade/zwzniff/source"
	"github.com/drunlade/zwzniff/store"
)

var (
	clientAddresses []string
	clientSerials   []string
	clientDBPath    string
)

// peerSpec is one parsed --address value:
// "host[,port=N][,protocol=pti|zniff-rs|ssh][,user=U][,password=P][,cmd=C]".
// user/password/cmd only apply to protocol=ssh: they authenticate the
// tunnel and name the remote command whose stdout carries the frame stream.
type peerSpec struct {
	host      string
	port      int
	protocol  string
	sshUser   string
	sshPass   string
	sshRemote string
}

func parsePeerSpec(s string) peerSpec {
	parts := strings.Split(s, ",")
	spec := peerSpec{host: parts[0], port: config.DefaultPTIPort, protocol: "pti"}
	for _, kv := range parts[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch k {
		case "port":
			if p, err := strconv.Atoi(v); err == nil {
				spec.port = p
			}
		case "protocol":
			spec.protocol = v
		case "user":
			spec.sshUser = v
		case "password":
			spec.sshPass = v
		case "cmd":
			spec.sshRemote = v
		}
	}
	return spec
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Connect to peers and/or serial devices and publish frames to a local bus",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(clientAddresses) == 0 && len(clientSerials) == 0 {
			return zwerrors.New(zwerrors.CategoryFraming, "client requires at least one --address or --serial")
		}

		model, err := schema.Load()
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategorySchema, "load schema descriptors", err)
		}
		lib := decode.NewStandardLibrary(model)

		b := bus.New(64, func(id uuid.UUID, skipped int) {
			log.Warn("subscriber %s lagged, dropped %d frames", id, skipped)
		})

		var idx store.Index = store.NewMemory()
		if clientDBPath != "" {
			sq, err := store.OpenSQLite(clientDBPath)
			if err != nil {
				return zwerrors.Wrap(zwerrors.CategoryTransport, "open database", err)
			}
			idx = sq
		}
		defer idx.Close()

		stop := make(chan struct{})
		errCh := make(chan error, len(clientAddresses)+len(clientSerials))

		for _, addr := range clientAddresses {
			spec := parsePeerSpec(addr)
			go func(spec peerSpec) {
				errCh <- runPeerPump(spec, b, stop)
			}(spec)
		}
		for _, dev := range clientSerials {
			dev := dev
			go func() {
				port, err := source.OpenSerial(dev)
				if err != nil {
					errCh <- err
					return
				}
				defer port.Close()
				errCh <- source.PumpZniffer(port, b, log, stop)
			}()
		}

		id, frames := b.Subscribe()
		defer b.Unsubscribe(id)
		go func() {
			for f := range frames {
				chunk := lib.Decode("zwave-mac", f.Payload, 0, len(f.Payload))
				homeID, srcNodeID, dstNodeID, _ := decode.Addressing(chunk)
				if _, err := idx.Insert(f, homeID, srcNodeID, dstNodeID); err != nil {
					log.Error("failed to persist frame: %v", err)
				}
			}
		}()

		return <-errCh
	},
}

func runPeerPump(spec peerSpec, b *bus.Bus, stop <-chan struct{}) error {
	if spec.protocol == "ssh" {
		if spec.sshRemote == "" {
			return zwerrors.New(zwerrors.CategoryFraming, "ssh peer "+spec.host+" requires cmd=<remote command> in --address")
		}
		addr := fmt.Sprintf("%s:%d", spec.host, spec.port)
		peer, err := source.DialSSHPeer(addr, spec.sshUser, spec.sshPass, spec.sshRemote)
		if err != nil {
			return zwerrors.Wrap(zwerrors.CategoryTransport, "dial ssh peer "+spec.host, err)
		}
		defer peer.Close()
		return source.PumpPTI(peer, b, log, stop)
	}

	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", spec.host, spec.port))
	if err != nil {
		return zwerrors.Wrap(zwerrors.CategoryTransport, "dial peer "+spec.host, err)
	}
	defer conn.Close()
	return source.PumpPTI(conn, b, log, stop)
}

func init() {
	clientCmd.Flags().StringSliceVar(&clientAddresses, "address", nil, "peer address (host[,port=N][,protocol=pti|zniff-rs|ssh][,user=U][,password=P][,cmd=C])")
	clientCmd.Flags().StringSliceVar(&clientSerials, "serial", nil, "serial device path")
	clientCmd.Flags().StringVar(&clientDBPath, "db", "", "optional SQLite database path for persistence")
}
