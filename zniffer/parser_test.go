package zniffer

import (
	"bytes"
	"testing"

	"github.com/drunlade/zwzniff/region"
)

var dataFrameScenario = []byte{
	0x21, 0x01, 0x6D, 0xCE, 0x20, 0x00, 0x9D, 0x21, 0x03, 0x12,
	0xE2, 0xEA, 0x36, 0xC3, 0x01, 0x81, 0x0D, 0x12, 0x20, 0x0B, 0x10, 0x02, 0x41,
	0x7F, 0x7F, 0x7F, 0x7F, 0xE5,
}

func wantPayload() []byte {
	return dataFrameScenario[10:]
}

func assertScenarioFrame(t *testing.T, out Outcome) {
	t.Helper()
	if out.Kind != ValidFrame {
		t.Fatalf("Kind = %v, want ValidFrame", out.Kind)
	}
	f := out.Frame
	if f.Region != region.EU {
		t.Fatalf("Region = %v, want EU", f.Region)
	}
	if f.Channel != 1 {
		t.Fatalf("Channel = %d, want 1", f.Channel)
	}
	if f.Bitrate != region.Speed9600 {
		t.Fatalf("Bitrate = %v, want Speed9600", f.Bitrate)
	}
	if f.Timestamp != 0x6DCE {
		t.Fatalf("Timestamp = %#x, want 0x6DCE", f.Timestamp)
	}
	if uint8(f.RSSI) != 0x9D {
		t.Fatalf("RSSI = %#x, want 0x9D", uint8(f.RSSI))
	}
	if !bytes.Equal(f.Payload, wantPayload()) {
		t.Fatalf("Payload = % X, want % X", f.Payload, wantPayload())
	}
}

func TestClassicDataFrameWholeChunk(t *testing.T) {
	p := New()
	out, n := p.FeedBytes(dataFrameScenario)
	if n != len(dataFrameScenario) {
		t.Fatalf("consumed %d bytes, want %d", n, len(dataFrameScenario))
	}
	assertScenarioFrame(t, out)
}

// TestClassicDataFrameByteAtATime feeds the identical scenario one byte per
// call, proving the state machine's outcome does not depend on how the
// caller chunks the underlying stream.
func TestClassicDataFrameByteAtATime(t *testing.T) {
	p := New()
	var last Outcome
	for _, b := range dataFrameScenario {
		last = p.Feed(b)
	}
	assertScenarioFrame(t, last)
}

func TestClassicDataFrameSplitArbitrarily(t *testing.T) {
	splits := [][]int{
		{1, len(dataFrameScenario) - 1},
		{3, 5, len(dataFrameScenario) - 8},
		{10, 1, 1, 1, len(dataFrameScenario) - 13},
	}
	for _, sizes := range splits {
		p := New()
		var last Outcome
		offset := 0
		for _, sz := range sizes {
			chunk := dataFrameScenario[offset : offset+sz]
			offset += sz
			for _, b := range chunk {
				last = p.Feed(b)
			}
		}
		assertScenarioFrame(t, last)
	}
}

func TestInvalidFrameTypeResets(t *testing.T) {
	p := New()
	p.Feed(sofData)
	out := p.Feed(0xFF) // not a known frame type
	if out.Kind != Invalid {
		t.Fatalf("Kind = %v, want Invalid", out.Kind)
	}
	if p.st != stateIdle {
		t.Fatalf("state = %v, want stateIdle after Invalid", p.st)
	}
}

func TestInvalidCommandIDResets(t *testing.T) {
	p := New()
	p.Feed(sofCommand)
	out := p.Feed(0xFF)
	if out.Kind != Invalid {
		t.Fatalf("Kind = %v, want Invalid", out.Kind)
	}
}

func TestInvalidRegionResets(t *testing.T) {
	p := New()
	for _, b := range dataFrameScenario[:5] {
		p.Feed(b)
	}
	out := p.Feed(0xFE) // not a known native region code
	if out.Kind != Invalid {
		t.Fatalf("Kind = %v, want Invalid", out.Kind)
	}
}

func TestInvalidSOD2Resets(t *testing.T) {
	p := New()
	for _, b := range dataFrameScenario[:8] {
		p.Feed(b)
	}
	out := p.Feed(0xFF) // sod2 must be 0x03
	if out.Kind != Invalid {
		t.Fatalf("Kind = %v, want Invalid", out.Kind)
	}
}

func TestZeroLengthCommandEmitsImmediately(t *testing.T) {
	p := New()
	p.Feed(sofCommand)
	p.Feed(0x01)
	out := p.Feed(0x00)
	if out.Kind != ValidCommand {
		t.Fatalf("Kind = %v, want ValidCommand", out.Kind)
	}
	if out.CmdID != 0x01 {
		t.Fatalf("CmdID = %d, want 1", out.CmdID)
	}
	if len(out.Payload) != 0 {
		t.Fatalf("Payload len = %d, want 0", len(out.Payload))
	}
}

func TestCommandWithPayload(t *testing.T) {
	p := New()
	p.Feed(sofCommand)
	p.Feed(0x02)
	p.Feed(0x01)
	out := p.Feed(0x05)
	if out.Kind != ValidCommand || out.CmdID != 0x02 || !bytes.Equal(out.Payload, []byte{0x05}) {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestTimeoutResetsMidFrame(t *testing.T) {
	p := New()
	for _, b := range dataFrameScenario[:5] {
		p.Feed(b)
	}
	p.Timeout()
	if p.st != stateIdle {
		t.Fatalf("state after Timeout = %v, want stateIdle", p.st)
	}
	// A fresh scenario fed after the timeout must decode cleanly.
	out, _ := p.FeedBytes(dataFrameScenario)
	assertScenarioFrame(t, out)
}
