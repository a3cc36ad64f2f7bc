package main

import (
	"net"

	"github.com/drunlade/zwzniff/bus"
	"github.com/drunlade/zwzniff/pti"
)

// serveConsumers accepts connections on ln and, per protocol, re-emits
// every frame published to b as a PTI DCH envelope to each connected
// consumer until the connection breaks.
func serveConsumers(ln net.Listener, b *bus.Bus, protocol string) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go serveConsumer(conn, b, protocol)
	}
}

func serveConsumer(conn net.Conn, b *bus.Bus, protocol string) {
	defer conn.Close()

	id, frames := b.Subscribe()
	defer b.Unsubscribe(id)

	for f := range frames {
		switch protocol {
		case "pti":
			env, err := pti.Emit(f)
			if err != nil {
				log.Debug("skipping frame with no PTI region mapping: %v", err)
				continue
			}
			if _, err := conn.Write(env); err != nil {
				return
			}
		default:
			// zniff-rs: re-emit is not implemented upstream either; the
			// proxy protocol table reserves this name for a future native
			// zniffer-rs-compatible wire encoder.
			return
		}
	}
}
