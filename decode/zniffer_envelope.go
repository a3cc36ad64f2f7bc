package decode

// ZnifferEnvelopeDecoder decodes a captured device frame's fixed 6-byte
// header (channel_and_speed, region, rssi, start_of_data, length) followed
// by a SubFrame spanning [6, 6+length) handed to the zwave-mac decoder.
type ZnifferEnvelopeDecoder struct{}

// SubDecoderName is the decoder the envelope recurses into for its payload.
const SubDecoderName = "zwave-mac"

func (ZnifferEnvelopeDecoder) Decode(lib *Library, f []byte, start, end int) (*DecodedChunk, bool) {
	if end-start < 6 {
		return nil, false
	}
	b := f[start:end]

	length := int(b[5])
	if 6+length > len(b) {
		return nil, false
	}

	fields := []DecodedField{
		{
			Name: "channel_and_speed", Type: FieldUInt8, Hint: DisplayHex,
			Offset: start + 0, Length: 1, Value: b[0:1],
		},
		{
			Name: "region", Type: FieldUInt8, Hint: DisplayDecimal,
			Offset: start + 1, Length: 1, Value: b[1:2],
		},
		{
			Name: "rssi", Type: FieldInt8, Hint: DisplayDecimal,
			Offset: start + 2, Length: 1, Value: b[2:3],
		},
		{
			Name: "start_of_data", Type: FieldUInt16LE, Hint: DisplayHex,
			Offset: start + 3, Length: 2, Value: b[3:5],
		},
		{
			Name: "length", Type: FieldUInt8, Hint: DisplayDecimal,
			Offset: start + 5, Length: 1, Value: b[5:6],
		},
	}

	subStart, subEnd := start+6, start+6+length
	if sub := lib.Decode(SubDecoderName, f, subStart, subEnd); sub != nil {
		fields = append(fields, DecodedField{
			Name: "mac_frame", Type: FieldSubFrame,
			Offset: subStart, Length: subEnd - subStart,
			Chunk: sub,
		})
	}

	return &DecodedChunk{
		DecoderName: "zniffer-envelope",
		Offset:      start,
		Length:      6 + length,
		Fields:      fields,
	}, true
}
