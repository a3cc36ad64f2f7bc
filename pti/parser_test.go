package pti

import (
	"bytes"
	"testing"

	"github.com/drunlade/zwzniff/frame"
	"github.com/drunlade/zwzniff/region"
)

// buildEnvelope wraps a PTI payload (already including HW_START/HW_END and
// trailer, per §4.2) into a DCH v2 envelope.
func buildEnvelope(payload []byte) []byte {
	headerFiller := make([]byte, 9) // indices 5..13, value irrelevant to parsing
	body := append([]byte{0x02, 0x00}, headerFiller...)
	body = append(body, payload...)

	// total = lengthField + 2 must equal len(envelope) = '[' + len(2) + body + ']'.
	total := 1 + 2 + len(body) + 1
	lengthField := total - 2

	e := make([]byte, 0, total)
	e = append(e, dchStart)
	e = append(e, byte(lengthField), byte(lengthField>>8))
	e = append(e, body...)
	e = append(e, dchEnd)
	return e
}

// scenarioPayload is the PTI payload from the "interleaved garbage" scenario:
// HW_RX_START, five OTA bytes, HW_RX_SUCCESS, trailer 9D 01 01 06 52.
func scenarioPayload() []byte {
	return []byte{hwRxStart, 0x01, 0x02, 0x03, 0x04, 0x05, hwRxSuccess, 0x9D, 0x01, 0x01, 0x06, 0x52}
}

func TestInterleavedGarbageAndValidEnvelope(t *testing.T) {
	input := append([]byte{0xFF, 0xFF, 0x00, 0x00, 0xFF}, buildEnvelope(scenarioPayload())...)

	p := New()
	frames := p.Feed(input)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if f.Region != region.EU {
		t.Fatalf("Region = %v, want EU", f.Region)
	}
	if f.Channel != 1 {
		t.Fatalf("Channel = %d, want 1", f.Channel)
	}
	if !bytes.Equal(f.Payload, []byte{0x01, 0x02, 0x03, 0x04, 0x05}) {
		t.Fatalf("Payload = % X, want 01 02 03 04 05", f.Payload)
	}
}

// TestStreamingInvariance feeds the same scenario split across many Feed
// calls at arbitrary boundaries and checks the result is identical to
// feeding it all at once.
func TestStreamingInvariance(t *testing.T) {
	input := append([]byte{0xFF, 0xFF, 0x00, 0x00, 0xFF}, buildEnvelope(scenarioPayload())...)

	whole := New()
	wantFrames := whole.Feed(input)
	if len(wantFrames) != 1 {
		t.Fatalf("whole-buffer feed produced %d frames, want 1", len(wantFrames))
	}

	splitSizes := []int{1, 2, 3, 7}
	for _, chunkSize := range splitSizes {
		p := New()
		var got []frame.MacFrame
		for off := 0; off < len(input); off += chunkSize {
			end := off + chunkSize
			if end > len(input) {
				end = len(input)
			}
			got = append(got, p.Feed(input[off:end])...)
		}
		if len(got) != 1 {
			t.Fatalf("chunkSize=%d: got %d frames, want 1", chunkSize, len(got))
		}
		if !bytes.Equal(got[0].Payload, wantFrames[0].Payload) || got[0].Region != wantFrames[0].Region {
			t.Fatalf("chunkSize=%d: frame mismatch: got %+v, want %+v", chunkSize, got[0], wantFrames[0])
		}
	}
}

func TestWakeUpBeamFilter(t *testing.T) {
	payload := []byte{hwRxStart, 0x55, 0x55, 0x55, hwRxSuccess, 0x9D, 0x01, 0x01, 0x06, 0x52}
	p := New()
	frames := p.Feed(buildEnvelope(payload))
	if len(frames) != 0 {
		t.Fatalf("got %d frames, want 0 for a wake-up beam payload", len(frames))
	}
}

func TestNonZWaveProtocolFilter(t *testing.T) {
	payload := scenarioPayload()
	// status0 is the second-to-last byte (appendedInfoCfg is the last);
	// low nibble 0x05 means the protocol isn't Z-Wave.
	payload[len(payload)-2] = 0x05
	p := New()
	frames := p.Feed(buildEnvelope(payload))
	if len(frames) != 0 {
		t.Fatalf("got %d frames, want 0 for a non-Z-Wave protocol byte", len(frames))
	}
}

// TestInvalidEnvelopeResyncsByOneByte constructs a leading envelope whose
// length field lies about its own size (claiming 20 bytes more than it
// actually has), so its trial parse runs off the end of its own bytes and
// into the following valid envelope, then fails (the byte it lands on isn't
// ']'). Recovering requires dropping exactly one byte and rescanning for the
// next '[' — dropping the whole (bogus, oversized) trial length instead
// would consume part of the following valid envelope along with it and lose
// the frame entirely.
func TestInvalidEnvelopeResyncsByOneByte(t *testing.T) {
	good := buildEnvelope(scenarioPayload())

	bad := append([]byte(nil), good...)
	badTotal := len(bad) + 20
	badLengthField := badTotal - 2
	bad[1] = byte(badLengthField)
	bad[2] = byte(badLengthField >> 8)

	input := append(bad, good...)
	p := New()
	frames := p.Feed(input)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 (recovered past the corrupted leading envelope)", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, []byte{0x01, 0x02, 0x03, 0x04, 0x05}) {
		t.Fatalf("Payload = % X, want 01 02 03 04 05", frames[0].Payload)
	}
}

// TestEmitParseRoundTrip checks that every frame Emit can encode survives
// a Feed through Parser unchanged in region, channel, RSSI and payload.
func TestEmitParseRoundTrip(t *testing.T) {
	cases := []frame.MacFrame{
		{Region: region.EU, Channel: 1, RSSI: 50, Payload: []byte{0x01, 0x02, 0x03, 0x04, 0x05}},
		{Region: region.US, Channel: 0, RSSI: 0, Payload: []byte{0xAA}},
		{Region: region.EU, Channel: 2, RSSI: 20, Payload: []byte{0x10, 0x20, 0x30}},
	}

	for _, f := range cases {
		env, err := Emit(f)
		if err != nil {
			t.Fatalf("Emit(%+v): %v", f, err)
		}

		p := New()
		frames := p.Feed(env)
		if len(frames) != 1 {
			t.Fatalf("Feed(Emit(%+v)) produced %d frames, want 1", f, len(frames))
		}

		got := frames[0]
		if got.Region != f.Region {
			t.Fatalf("Region = %v, want %v", got.Region, f.Region)
		}
		if got.Channel != f.Channel {
			t.Fatalf("Channel = %d, want %d", got.Channel, f.Channel)
		}
		if got.RSSI != f.RSSI {
			t.Fatalf("RSSI = %d, want %d", got.RSSI, f.RSSI)
		}
		if !bytes.Equal(got.Payload, f.Payload) {
			t.Fatalf("Payload = % X, want % X", got.Payload, f.Payload)
		}
	}
}

func TestResetClearsBuffer(t *testing.T) {
	p := New()
	p.Feed([]byte{dchStart, 0x01, 0x02})
	p.Reset()
	if len(p.buf) != 0 {
		t.Fatalf("buf len = %d after Reset, want 0", len(p.buf))
	}
}
