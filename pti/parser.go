// Package pti implements PtiFrameParser and the PTI re-emitter: locating
// DCH envelopes in a byte stream, extracting the embedded PTI payload and
// its backward-parsed trailer, and reconstructing a MacFrame.
package pti

import (
	"github.com/drunlade/zwzniff/frame"
	"github.com/drunlade/zwzniff/region"
)

const (
	dchStart = 0x5B // '['
	dchEnd   = 0x5D // ']'

	hwRxStart   = 0xF8
	hwTxStart   = 0xFC
	hwRxSuccess = 0xF9
	hwTxSuccess = 0xFD

	protocolZWave = 0x06

	wakeupBeam = 0x55
)

// dchHeaderSize and dchPayloadOffset are keyed by DCH version, both
// measured from ver_lo (header size) and from '[' (payload offset), per
// §4.2: v2 has a 6-byte timestamp (header size 13, payload at 14 from '[');
// v3 has an 8-byte timestamp plus a longer flags/seq block (header size 20,
// payload at 21 from '[').
var dchHeaderSize = map[uint16]int{2: 13, 3: 20}
var dchPayloadOffset = map[uint16]int{2: 14, 3: 21}

// Parser buffers incoming bytes and scans forward for complete DCH
// envelopes, emitting a MacFrame for each one successfully parsed.
type Parser struct {
	buf []byte
}

// New returns an empty Parser.
func New() *Parser {
	return &Parser{}
}

// Reset clears the internal buffer.
func (p *Parser) Reset() {
	p.buf = p.buf[:0]
}

// Feed appends chunk to the internal buffer and returns every MacFrame that
// can be extracted from complete envelopes now present.
func (p *Parser) Feed(chunk []byte) []frame.MacFrame {
	p.buf = append(p.buf, chunk...)

	var out []frame.MacFrame
	for {
		if len(p.buf) == 0 {
			break
		}
		if p.buf[0] != dchStart {
			p.buf = p.buf[1:]
			continue
		}
		if len(p.buf) < 5 {
			break // need at least start+len+ver to know the envelope size
		}
		length := int(p.buf[1]) | int(p.buf[2])<<8
		total := length + 2
		if len(p.buf) < total {
			break // incomplete, wait for more bytes
		}
		envelope := p.buf[:total]
		f, ok := parseEnvelope(envelope)
		if !ok {
			// Resynchronize one byte at a time rather than skipping the
			// whole trial length field, which may itself be bogus.
			p.buf = p.buf[1:]
			continue
		}
		out = append(out, f)
		p.buf = p.buf[total:]
	}
	return out
}

// parseEnvelope trial-parses one complete `[...]` envelope (length already
// validated by the caller) and reports ok=false for any framing or content
// problem, letting the caller resynchronize by one byte.
func parseEnvelope(e []byte) (frame.MacFrame, bool) {
	if len(e) < 5 {
		return frame.MacFrame{}, false
	}
	if e[0] != dchStart || e[len(e)-1] != dchEnd {
		return frame.MacFrame{}, false
	}
	length := int(e[1]) | int(e[2])<<8
	version := uint16(e[3]) | uint16(e[4])<<8

	headerSize, ok := dchHeaderSize[version]
	if !ok {
		return frame.MacFrame{}, false
	}
	if length <= headerSize {
		return frame.MacFrame{}, false
	}
	payloadOffset := dchPayloadOffset[version]
	payloadEnd := len(e) - 1 // index of ']'
	if payloadOffset > payloadEnd {
		return frame.MacFrame{}, false
	}
	payload := e[payloadOffset:payloadEnd]
	return parsePTIPayload(payload)
}

// parsePTIPayload parses HW_START | OTA… | HW_END | TRAILER, with the
// trailer read backward from the final byte, per §4.2.
func parsePTIPayload(data []byte) (frame.MacFrame, bool) {
	if len(data) < 6 {
		return frame.MacFrame{}, false
	}
	hwStart := data[0]
	if hwStart != hwRxStart && hwStart != hwTxStart {
		return frame.MacFrame{}, false
	}

	idx := len(data) - 1

	appendedInfoCfg := data[idx]
	isRx := (appendedInfoCfg & 0b0100_0000) != 0
	trailerLen := int((appendedInfoCfg&0b0011_1000)>>3) + 3
	appendedInfoVersion := appendedInfoCfg & 0b0000_0111
	idx--

	status0 := data[idx]
	if status0&0x0F != protocolZWave {
		return frame.MacFrame{}, false
	}
	idx--

	radioInfo := data[idx]
	channel := radioInfo & 0b0011_1111
	idx--

	radioConfig := data[idx]
	ptiRegion := radioConfig & 0b0001_1111
	idx--

	r, ok := region.FromPTI(ptiRegion)
	if !ok {
		return frame.MacFrame{}, false
	}

	var rssi int8
	if isRx {
		if idx < 0 {
			return frame.MacFrame{}, false
		}
		raw := int8(data[idx])
		if appendedInfoVersion >= 1 {
			raw = saturatingSub(raw, 0x32)
		}
		rssi = absInt8(raw)
	}

	hwEndPos := len(data) - 1 - trailerLen
	if hwEndPos < 1 || hwEndPos >= len(data) {
		return frame.MacFrame{}, false
	}
	hwEnd := data[hwEndPos]
	expectedHWEnd := byte(hwTxSuccess)
	if isRx {
		expectedHWEnd = hwRxSuccess
	}
	if hwEnd != expectedHWEnd {
		return frame.MacFrame{}, false
	}

	ota := data[1:hwEndPos]
	if len(ota) == 0 || ota[0] == wakeupBeam {
		return frame.MacFrame{}, false
	}

	speed := region.GetSpeed(channel, ptiRegion)

	return frame.MacFrame{
		Region:  r,
		Channel: channel,
		Bitrate: speed,
		RSSI:    rssi,
		Payload: append([]byte(nil), ota...),
	}, true
}

func saturatingSub(a int8, b int8) int8 {
	r := int(a) - int(b)
	if r < -128 {
		return -128
	}
	if r > 127 {
		return 127
	}
	return int8(r)
}

func absInt8(v int8) int8 {
	if v < 0 {
		if v == -128 {
			return 127
		}
		return -v
	}
	return v
}
