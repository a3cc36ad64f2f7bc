package capture

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/drunlade/zwzniff/internal/crc16"
)

// validPreamble builds a 2048-byte preamble with a correct version and CRC.
func validPreamble() []byte {
	p := make([]byte, preambleSize)
	binary.LittleEndian.PutUint32(p[0:4], formatVersion)
	crc := crc16.Checksum(p[:crcCheckedBytes])
	binary.LittleEndian.PutUint16(p[2046:2048], crc)
	return p
}

func encodeRecord(timestamp uint64, properties uint8, payload []byte, apiType APIType) []byte {
	buf := make([]byte, 13+len(payload)+1)
	binary.LittleEndian.PutUint64(buf[0:8], timestamp)
	buf[8] = properties
	binary.LittleEndian.PutUint32(buf[9:13], uint32(len(payload)))
	copy(buf[13:], payload)
	buf[13+len(payload)] = byte(apiType)
	return buf
}

func TestOpenValidPreamble(t *testing.T) {
	r, err := Open(bytes.NewReader(validPreamble()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r == nil {
		t.Fatal("Open returned nil Reader with nil error")
	}
}

func TestOpenInvalidVersion(t *testing.T) {
	p := validPreamble()
	binary.LittleEndian.PutUint32(p[0:4], 999)
	_, err := Open(bytes.NewReader(p))
	if err != ErrInvalidVersion {
		t.Fatalf("Open error = %v, want ErrInvalidVersion", err)
	}
}

// TestOpenBadCRC is the capture-file preamble failure scenario: version
// bytes 68 00 00 00 (104) but a trailing CRC that does not match the
// AUG-CCITT checksum of bytes 0..2045.
func TestOpenBadCRC(t *testing.T) {
	p := validPreamble()
	p[2046] ^= 0xFF // corrupt the stored CRC without touching the version
	_, err := Open(bytes.NewReader(p))
	if err != ErrInvalidPreamble {
		t.Fatalf("Open error = %v, want ErrInvalidPreamble", err)
	}
}

func TestOpenTruncatedPreamble(t *testing.T) {
	p := validPreamble()
	_, err := Open(bytes.NewReader(p[:100]))
	if err != ErrUnexpectedEOF {
		t.Fatalf("Open error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadRecordCleanEOF(t *testing.T) {
	rd := &Reader{r: bytes.NewReader(nil)}
	rec, err := rd.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if rec != nil {
		t.Fatalf("ReadRecord = %+v, want nil at clean EOF", rec)
	}
}

func TestReadRecordTruncatedMidRecord(t *testing.T) {
	full := encodeRecord(123, 0, []byte{0x01, 0x02, 0x03}, APITypePTI)
	rd := &Reader{r: bytes.NewReader(full[:len(full)-2])}
	_, err := rd.ReadRecord()
	if err != ErrUnexpectedEOF {
		t.Fatalf("ReadRecord error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReadRecordUnknownAPIType(t *testing.T) {
	rec := encodeRecord(1, 0, nil, APIType(0x01))
	rd := &Reader{r: bytes.NewReader(rec)}
	_, err := rd.ReadRecord()
	if err != ErrInvalidAPIType {
		t.Fatalf("ReadRecord error = %v, want ErrInvalidAPIType", err)
	}
}

func TestReadRecordRoundTrip(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	data := encodeRecord(0xDEADBEEF, 7, payload, APITypeZniffer)
	rd := &Reader{r: bytes.NewReader(data)}
	rec, err := rd.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	if rec.Timestamp != 0xDEADBEEF || rec.Properties != 7 || rec.APIType != APITypeZniffer {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !bytes.Equal(rec.Payload, payload) {
		t.Fatalf("Payload = % X, want % X", rec.Payload, payload)
	}
}

func TestForEachVisitsAllRecords(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(encodeRecord(1, 0, []byte{0x01}, APITypePTI))
	buf.Write(encodeRecord(2, 0, []byte{0x02, 0x03}, APITypeZniffer))
	rd := &Reader{r: &buf}

	var seen []uint64
	err := rd.ForEach(func(rec *Record) error {
		seen = append(seen, rec.Timestamp)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("seen = %v, want [1 2]", seen)
	}
}
