// Package source adapts raw byte streams (a local serial port, a peer
// connected over the network) into a feed of frame.MacFrame values pushed
// onto a bus.Bus, one dedicated goroutine per source.
package source

import (
	"io"
	"time"

	"github.com/drunlade/zwzniff/bus"
	"github.com/drunlade/zwzniff/frame"
	"github.com/drunlade/zwzniff/pkg/logger"
	"github.com/drunlade/zwzniff/pti"
	"github.com/drunlade/zwzniff/zniffer"
)

// ReaderWithTimeout extends io.Reader with a read deadline, matching the
// contract every source's underlying transport must satisfy so a stalled
// peer or an unplugged radio doesn't block its goroutine forever.
type ReaderWithTimeout interface {
	io.Reader
	SetReadDeadline(time.Time) error
}

// readTimeout bounds each blocking read on a source transport; on timeout
// the Zniffer parser is reset rather than treating it as an error.
const readTimeout = 2 * time.Second

// PumpZniffer reads r in a loop, feeding bytes through a zniffer.Parser and
// publishing every resulting frame to b, until r returns a non-timeout
// error or stop is closed. It runs on the calling goroutine; callers start
// it with `go`.
func PumpZniffer(r ReaderWithTimeout, b *bus.Bus, log logger.Logger, stop <-chan struct{}) error {
	p := zniffer.New()
	buf := make([]byte, 4096)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := r.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			consumeZniffer(p, buf[:n], b, log)
		}
		if err != nil {
			if isTimeout(err) {
				p.Timeout()
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func consumeZniffer(p *zniffer.Parser, chunk []byte, b *bus.Bus, log logger.Logger) {
	for len(chunk) > 0 {
		out, n := p.FeedBytes(chunk)
		chunk = chunk[n:]
		switch out.Kind {
		case zniffer.ValidFrame:
			b.Publish(out.Frame)
		case zniffer.Invalid:
			log.Debug("source: discarding invalid zniffer framing")
		}
	}
}

// PumpPTI reads r in a loop, feeding bytes through a pti.Parser and
// publishing every resulting frame to b, until r returns an error or stop
// is closed.
func PumpPTI(r ReaderWithTimeout, b *bus.Bus, log logger.Logger, stop <-chan struct{}) error {
	p := pti.New()
	buf := make([]byte, 4096)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := r.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			for _, f := range p.Feed(buf[:n]) {
				b.Publish(f)
			}
		}
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func isTimeout(err error) bool {
	type timeoutter interface{ Timeout() bool }
	t, ok := err.(timeoutter)
	return ok && t.Timeout()
}

// frameWriter is satisfied by anything EmitPTI writes re-synthesized PTI
// envelopes to (any io.Writer, such as a TCP connection to a consumer).
type frameWriter interface {
	io.Writer
}

// EmitPTI re-emits each MacFrame from frames to w as a DCH v2 envelope via
// pti.Emit, stopping at the first write or encode error.
func EmitPTI(w frameWriter, frames <-chan frame.MacFrame) error {
	for f := range frames {
		env, err := pti.Emit(f)
		if err != nil {
			return err
		}
		if _, err := w.Write(env); err != nil {
			return err
		}
	}
	return nil
}
