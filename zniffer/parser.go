// Package zniffer implements ZnifferFrameParser, a resumable byte-at-a-time
// state machine that reconstructs command responses and data frames from
// the Zniffer device's native serial framing.
package zniffer

import (
	"github.com/drunlade/zwzniff/frame"
	"github.com/drunlade/zwzniff/region"
)

// Outcome categorizes the result of feeding one byte (or a chunk of bytes)
// into the parser. It is a closed variant — new kinds require explicit
// handling at every call site.
type Outcome struct {
	Kind    OutcomeKind
	CmdID   uint8
	Payload []byte
	Frame   frame.MacFrame
}

// OutcomeKind is the tag discriminating Outcome's payload.
type OutcomeKind int

const (
	Incomplete OutcomeKind = iota
	ValidCommand
	ValidFrame
	Invalid
)

// SOF bytes framing the two device traffic kinds.
const (
	sofCommand = 0x23
	sofData    = 0x21
)

const (
	sodf1 = 0x21
	sodf2 = 0x03
)

// knownCmdIDs are the command ids the device is documented to emit
// responses for. 3, 14 and 19 have no defined semantics in the source this
// parser was built from; their responses are accepted structurally but not
// interpreted (design note (c)).
var knownCmdIDs = map[uint8]bool{1: true, 2: true, 3: true, 4: true, 5: true, 14: true, 19: true}

var knownFrameTypes = map[uint8]bool{1: true, 2: true, 4: true, 5: true}

type state int

const (
	stateIdle state = iota
	stateAwaitCmdID
	stateAwaitLengthCmd
	stateAwaitPayloadCmd
	stateAwaitFrameType
	stateAwaitTimestampHi
	stateAwaitTimestampLo
	stateAwaitChannelSpeed
	stateAwaitRegion
	stateAwaitRSSI
	stateAwaitSOD1
	stateAwaitSOD2
	stateAwaitLengthFrame
	stateAwaitPayloadFrame
)

// Parser is the ZnifferFrameParser state machine. It is single-threaded and
// owned by exactly one reader.
type Parser struct {
	st state

	cmdID     uint8
	remaining int
	buf       []byte

	ts        uint16
	channel   uint8
	speed     uint8
	rssi      int8
	regionRaw uint8
}

// New returns a Parser in its initial Idle state.
func New() *Parser {
	return &Parser{st: stateIdle}
}

// Timeout resets the state machine without emitting anything, per the
// external inactivity timeout contract.
func (p *Parser) Timeout() {
	p.reset()
}

func (p *Parser) reset() {
	p.st = stateIdle
	p.cmdID = 0
	p.remaining = 0
	p.buf = nil
	p.ts = 0
	p.channel = 0
	p.speed = 0
	p.rssi = 0
	p.regionRaw = 0
}

// Feed advances the state machine by one byte and returns the resulting
// outcome.
func (p *Parser) Feed(b byte) Outcome {
	switch p.st {
	case stateIdle:
		switch b {
		case sofCommand:
			p.st = stateAwaitCmdID
		case sofData:
			p.st = stateAwaitFrameType
		}
		return Outcome{Kind: Incomplete}

	case stateAwaitCmdID:
		if !knownCmdIDs[b] {
			p.reset()
			return Outcome{Kind: Invalid}
		}
		p.cmdID = b
		p.st = stateAwaitLengthCmd
		return Outcome{Kind: Incomplete}

	case stateAwaitLengthCmd:
		p.remaining = int(b)
		p.buf = make([]byte, 0, p.remaining)
		if p.remaining == 0 {
			out := Outcome{Kind: ValidCommand, CmdID: p.cmdID, Payload: []byte{}}
			p.reset()
			return out
		}
		p.st = stateAwaitPayloadCmd
		return Outcome{Kind: Incomplete}

	case stateAwaitPayloadCmd:
		p.buf = append(p.buf, b)
		p.remaining--
		if p.remaining == 0 {
			out := Outcome{Kind: ValidCommand, CmdID: p.cmdID, Payload: p.buf}
			p.reset()
			return out
		}
		return Outcome{Kind: Incomplete}

	case stateAwaitFrameType:
		if !knownFrameTypes[b] {
			p.reset()
			return Outcome{Kind: Invalid}
		}
		p.st = stateAwaitTimestampHi
		return Outcome{Kind: Incomplete}

	case stateAwaitTimestampHi:
		p.ts = uint16(b) << 8
		p.st = stateAwaitTimestampLo
		return Outcome{Kind: Incomplete}

	case stateAwaitTimestampLo:
		p.ts |= uint16(b)
		p.st = stateAwaitChannelSpeed
		return Outcome{Kind: Incomplete}

	case stateAwaitChannelSpeed:
		p.channel = b >> 5
		p.speed = b & 0x1F
		p.st = stateAwaitRegion
		return Outcome{Kind: Incomplete}

	case stateAwaitRegion:
		if _, ok := region.FromNative(b); !ok {
			p.reset()
			return Outcome{Kind: Invalid}
		}
		p.regionRaw = b
		p.st = stateAwaitRSSI
		return Outcome{Kind: Incomplete}

	case stateAwaitRSSI:
		p.rssi = int8(b)
		p.st = stateAwaitSOD1
		return Outcome{Kind: Incomplete}

	case stateAwaitSOD1:
		if b != sodf1 {
			p.reset()
			return Outcome{Kind: Invalid}
		}
		p.st = stateAwaitSOD2
		return Outcome{Kind: Incomplete}

	case stateAwaitSOD2:
		if b != sodf2 {
			p.reset()
			return Outcome{Kind: Invalid}
		}
		p.st = stateAwaitLengthFrame
		return Outcome{Kind: Incomplete}

	case stateAwaitLengthFrame:
		p.remaining = int(b)
		payload := make([]byte, 0, p.remaining)
		if p.remaining == 0 {
			out := p.emitFrame(payload)
			p.reset()
			return out
		}
		p.buf = payload
		p.st = stateAwaitPayloadFrame
		return Outcome{Kind: Incomplete}

	case stateAwaitPayloadFrame:
		p.buf = append(p.buf, b)
		p.remaining--
		if p.remaining == 0 {
			out := p.emitFrame(p.buf)
			p.reset()
			return out
		}
		return Outcome{Kind: Incomplete}

	default:
		p.reset()
		return Outcome{Kind: Invalid}
	}
}

func (p *Parser) emitFrame(payload []byte) Outcome {
	r, _ := region.FromNative(p.regionRaw)
	return Outcome{
		Kind: ValidFrame,
		Frame: frame.MacFrame{
			Timestamp: uint64(p.ts),
			Region:    r,
			Channel:   p.channel,
			Bitrate:   region.Speed(p.speed),
			RSSI:      p.rssi,
			Payload:   payload,
		},
	}
}

// FeedBytes feeds chunk byte-by-byte until a non-Incomplete outcome is
// produced, or the chunk is exhausted. It returns that outcome (or a final
// Incomplete if the whole chunk was consumed without resolving) and the
// number of bytes consumed from chunk; callers must re-feed the remainder.
func (p *Parser) FeedBytes(chunk []byte) (Outcome, int) {
	for i, b := range chunk {
		out := p.Feed(b)
		if out.Kind != Incomplete {
			return out, i + 1
		}
	}
	return Outcome{Kind: Incomplete}, len(chunk)
}
