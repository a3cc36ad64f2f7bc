package source

import (
	"time"

	serial "github.com/daedaluz/goserial"
)

// SerialPort adapts a goserial Port (which takes a read timeout duration
// per call) to the ReaderWithTimeout contract (an absolute deadline),
// matching the shape the Zniffer device's synchronous serial link needs.
type SerialPort struct {
	p *serial.Port
}

// OpenSerial opens the named serial device for Zniffer/PTI traffic.
func OpenSerial(name string) (*SerialPort, error) {
	opts := serial.NewOptions()
	p, err := serial.Open(name, opts)
	if err != nil {
		return nil, err
	}
	if err := p.MakeRaw(); err != nil {
		p.Close()
		return nil, err
	}
	return &SerialPort{p: p}, nil
}

func (s *SerialPort) Read(b []byte) (int, error) {
	return s.p.Read(b)
}

func (s *SerialPort) Write(b []byte) (int, error) {
	return s.p.Write(b)
}

func (s *SerialPort) SetReadDeadline(t time.Time) error {
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	s.p.SetReadTimeout(d)
	return nil
}

func (s *SerialPort) Close() error {
	return s.p.Close()
}
