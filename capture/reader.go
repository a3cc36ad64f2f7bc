// Package capture implements CaptureFileReader for the on-disk Z-Wave Log
// Format (ZLF): a CRC-verified fixed preamble followed by length-prefixed,
// timestamped records.
package capture

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/drunlade/zwzniff/internal/crc16"
)

const (
	preambleSize    = 2048
	formatVersion   = 104
	crcCheckedBytes = 2046
)

// APIType identifies which frame reconstructor a record's payload belongs to.
type APIType uint8

const (
	APITypePTI     APIType = 0xF5
	APITypeZniffer APIType = 0xFE
)

// Sentinel errors, matching the error-taxonomy framing-error category.
var (
	ErrInvalidPreamble = errors.New("capture: invalid preamble (bad CRC)")
	ErrInvalidVersion  = errors.New("capture: unsupported format version")
	ErrInvalidAPIType  = errors.New("capture: unknown record api_type")
	ErrUnexpectedEOF   = io.ErrUnexpectedEOF
)

// Record is one length-prefixed entry read from a capture file.
type Record struct {
	Timestamp uint64
	Properties uint8
	Payload    []byte
	APIType    APIType
}

// Reader reads records from a ZLF stream after validating its preamble.
type Reader struct {
	r io.Reader
}

// Open validates the 2048-byte preamble of r and returns a Reader
// positioned at the first record.
func Open(r io.Reader) (*Reader, error) {
	preamble := make([]byte, preambleSize)
	if _, err := io.ReadFull(r, preamble); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, ErrUnexpectedEOF
		}
		return nil, err
	}

	version := binary.LittleEndian.Uint32(preamble[0:4])
	if version != formatVersion {
		return nil, ErrInvalidVersion
	}

	want := binary.LittleEndian.Uint16(preamble[2046:2048])
	got := crc16.Checksum(preamble[:crcCheckedBytes])
	if want != got {
		return nil, ErrInvalidPreamble
	}

	return &Reader{r: r}, nil
}

// ReadRecord reads the next record. It returns (nil, nil) at a clean EOF
// before the timestamp field, indicating end-of-stream.
func (rd *Reader) ReadRecord() (*Record, error) {
	var head [13]byte // timestamp(8) + properties(1) + payload_len(4)
	n, err := io.ReadFull(rd.r, head[:])
	if n == 0 && (err == io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, ErrUnexpectedEOF
	}

	timestamp := binary.LittleEndian.Uint64(head[0:8])
	properties := head[8]
	payloadLen := binary.LittleEndian.Uint32(head[9:13])

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(rd.r, payload); err != nil {
		return nil, ErrUnexpectedEOF
	}

	var apiByte [1]byte
	if _, err := io.ReadFull(rd.r, apiByte[:]); err != nil {
		return nil, ErrUnexpectedEOF
	}
	apiType := APIType(apiByte[0])
	if apiType != APITypePTI && apiType != APITypeZniffer {
		return nil, ErrInvalidAPIType
	}

	return &Record{
		Timestamp:  timestamp,
		Properties: properties,
		Payload:    payload,
		APIType:    apiType,
	}, nil
}

// ForEach folds over every remaining record without building a slice.
func (rd *Reader) ForEach(fn func(*Record) error) error {
	for {
		rec, err := rd.ReadRecord()
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
