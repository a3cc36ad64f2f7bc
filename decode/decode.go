// Package decode implements SchemaDrivenDecoder: a registry of named
// FrameDecoders that walk a byte range of a MacFrame payload into a tree of
// typed, positioned DecodedFields.
package decode

// FieldType is the closed set of primitive encodings a DecodedField may
// carry.
type FieldType int

const (
	FieldUInt8 FieldType = iota
	FieldUInt16LE
	FieldUInt16BE
	FieldUInt32LE
	FieldUInt32BE
	FieldInt8
	FieldInt16LE
	FieldInt16BE
	FieldInt32LE
	FieldInt32BE
	FieldBytes
	FieldSubFrame
)

// DisplayHint suggests how a UI should render a field's value. It carries
// no decoding semantics.
type DisplayHint int

const (
	DisplayNone DisplayHint = iota
	DisplayHex
	DisplayDecimal
	DisplayBinary
	DisplayASCII
)

// DecodedField is one leaf or sub-tree value extracted from a byte range.
type DecodedField struct {
	Name    string
	Type    FieldType
	Hint    DisplayHint
	Offset  int
	Length  int
	Value   []byte
	Comment string
	Chunk   *DecodedChunk // populated only when Type == FieldSubFrame
}

// DecodedChunk is the result of one decoder invocation: a named group of
// fields spanning [Offset, Offset+Length) of the frame it was decoded from.
type DecodedChunk struct {
	DecoderName string
	Offset      int
	Length      int
	Fields      []DecodedField
}

// FrameDecoder decodes frameBytes[start:end] into a
// DecodedChunk, or reports ok=false on truncated data, an unrecognized
// header type, or any other unrecoverable schema mismatch.
type FrameDecoder interface {
	Decode(lib *Library, frameBytes []byte, start, end int) (*DecodedChunk, bool)
}

// Library is a name-keyed registry of FrameDecoders. Decoders may recurse
// through the library by name to decode sub-frames (e.g. the Zniffer
// envelope decoder recursing into the MAC decoder for its OTA payload).
type Library struct {
	decoders map[string]FrameDecoder
}

// NewLibrary returns an empty registry.
func NewLibrary() *Library {
	return &Library{decoders: make(map[string]FrameDecoder)}
}

// Register adds or replaces the decoder known by name.
func (l *Library) Register(name string, d FrameDecoder) {
	l.decoders[name] = d
}

// Decode looks up decoderName and invokes it over frameBytes[start:end]. It
// returns nil if the decoder is unregistered or if decoding fails.
func (l *Library) Decode(decoderName string, frameBytes []byte, start, end int) *DecodedChunk {
	d, ok := l.decoders[decoderName]
	if !ok {
		return nil
	}
	if start < 0 || end > len(frameBytes) || start > end {
		return nil
	}
	chunk, ok := d.Decode(l, frameBytes, start, end)
	if !ok {
		return nil
	}
	return chunk
}
