package decode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/drunlade/zwzniff/schema"
)

// ZWaveMacDecoder walks the classic Z-Wave MAC header schema (base header,
// header-type-specific fields) and then the Command Class / Command /
// Parameter catalog over the remaining bytes.
type ZWaveMacDecoder struct {
	Model *schema.Model
}

const classicBaseHeaderKey = "0"

func (d ZWaveMacDecoder) Decode(lib *Library, f []byte, start, end int) (*DecodedChunk, bool) {
	frameBytes := f[start:end]

	base, ok := d.Model.FrameDefinition.BaseHeaderByKey(classicBaseHeaderKey)
	if !ok {
		return nil, false
	}

	cursor := 0
	var baseFields []DecodedField
	var headerType uint8
	haveHeaderType := false

	for _, p := range base.Param {
		n, err := strconv.Atoi(p.Bits)
		if err != nil {
			return nil, false
		}
		width := n / 8
		if cursor+width > len(frameBytes) {
			return nil, false
		}
		value := frameBytes[cursor : cursor+width]
		baseFields = append(baseFields, DecodedField{
			Name: p.Name, Type: widthToFieldType(width), Hint: DisplayHex,
			Offset: start + cursor, Length: width, Value: value,
		})

		if len(p.Sub) > 0 && width >= 1 {
			bitOffset := 0
			for _, sub := range p.Sub {
				sn, err := strconv.Atoi(sub.Bits)
				if err != nil {
					return nil, false
				}
				mask := byte((1 << uint(sn)) - 1)
				subValue := (value[0] >> uint(bitOffset)) & mask
				bitOffset += sn
				if sub.Name == "HeaderType" {
					headerType = subValue
					haveHeaderType = true
				}
			}
		}
		cursor += width
	}
	if !haveHeaderType {
		return nil, false
	}

	baseHeaderEnd := cursor

	headerTypeName := d.Model.FrameDefinition.HeaderTypeName(headerType)
	header, ok := d.Model.FrameDefinition.HeaderByName(strings.ToUpper(headerTypeName))
	if !ok {
		return nil, false
	}

	var headerFields []DecodedField
	for _, p := range header.Param {
		width, err := strconv.Atoi(p.Bits)
		if err != nil {
			return nil, false
		}
		if cursor+width > len(frameBytes) {
			return nil, false
		}
		headerFields = append(headerFields, DecodedField{
			Name: p.Name, Type: FieldBytes, Hint: DisplayHex,
			Offset: start + cursor, Length: width, Value: frameBytes[cursor : cursor+width],
			Comment: p.Text,
		})
		cursor += width
	}

	fields := []DecodedField{
		{
			Name: "BaseHeader", Type: FieldSubFrame,
			Offset: start, Length: baseHeaderEnd,
			Chunk: &DecodedChunk{DecoderName: "zwave-mac:base-header", Offset: start, Fields: baseFields},
		},
		{
			Name: strings.ToUpper(headerTypeName), Type: FieldSubFrame,
			Offset: start + baseHeaderEnd, Length: cursor - baseHeaderEnd,
			Chunk: &DecodedChunk{DecoderName: "zwave-mac:header-type", Offset: start + baseHeaderEnd, Fields: headerFields},
		},
	}

	if cursor >= len(frameBytes) {
		return &DecodedChunk{DecoderName: "zwave-mac", Offset: start, Length: cursor, Fields: fields}, true
	}

	payload := frameBytes[cursor:]
	if len(payload) < 2 {
		return &DecodedChunk{DecoderName: "zwave-mac", Offset: start, Length: len(frameBytes), Fields: fields}, true
	}

	ccID, cmdID := payload[0], payload[1]
	cc, ok := d.Model.CommandClasses.ByID(ccID)
	if !ok {
		fields = append(fields, DecodedField{
			Name: "UnknownCommandClass", Type: FieldBytes, Hint: DisplayHex,
			Offset: start + cursor, Length: len(payload), Value: payload,
		})
		return &DecodedChunk{DecoderName: "zwave-mac", Offset: start, Length: len(frameBytes), Fields: fields}, true
	}
	fields = append(fields, DecodedField{
		Name: "CommandClass", Type: FieldUInt8, Hint: DisplayHex,
		Offset: start + cursor, Length: 1, Value: payload[0:1],
		Comment: fmt.Sprintf("%s (v%s)", cc.Help, cc.Version),
	})

	cmd, ok := cc.ByID(cmdID)
	if !ok {
		fields = append(fields, DecodedField{
			Name: "UnknownCommand", Type: FieldBytes, Hint: DisplayHex,
			Offset: start + cursor + 1, Length: len(payload) - 1, Value: payload[1:],
		})
		return &DecodedChunk{DecoderName: "zwave-mac", Offset: start, Length: len(frameBytes), Fields: fields}, true
	}
	fields = append(fields, DecodedField{
		Name: "Command", Type: FieldUInt8, Hint: DisplayHex,
		Offset: start + cursor + 1, Length: 1, Value: payload[1:2],
		Comment: cmd.Help,
	})

	paramCursor := cursor + 2
	for _, p := range cmd.Param {
		if paramCursor >= len(frameBytes) {
			break
		}
		switch p.ParamType {
		case "BYTE":
			fields = append(fields, DecodedField{
				Name: p.Name, Type: FieldUInt8, Hint: DisplayHex,
				Offset: start + paramCursor, Length: 1, Value: frameBytes[paramCursor : paramCursor+1],
			})
			paramCursor++
		default:
			// Unsupported parameter type: the schema names a richer shape
			// (variant, bitmask, bitfield, fieldenum, const, arrayattrib)
			// that this decoder does not expand; surface the rest of the
			// frame as opaque bytes rather than failing.
			fields = append(fields, DecodedField{
				Name: p.Name, Type: FieldBytes, Hint: DisplayHex,
				Offset: start + paramCursor, Length: len(frameBytes) - paramCursor,
				Value:   frameBytes[paramCursor:],
				Comment: "unsupported parameter type: " + p.ParamType,
			})
			paramCursor = len(frameBytes)
		}
	}
	for _, vg := range cmd.VariantGroups {
		if paramCursor >= len(frameBytes) {
			break
		}
		fields = append(fields, DecodedField{
			Name: vg.Name, Type: FieldBytes, Hint: DisplayHex,
			Offset: start + paramCursor, Length: len(frameBytes) - paramCursor,
			Value: frameBytes[paramCursor:],
		})
		paramCursor = len(frameBytes)
	}

	return &DecodedChunk{DecoderName: "zwave-mac", Offset: start, Length: len(frameBytes), Fields: fields}, true
}

func widthToFieldType(width int) FieldType {
	switch width {
	case 1:
		return FieldUInt8
	case 2:
		return FieldUInt16BE
	case 4:
		return FieldUInt32BE
	default:
		return FieldBytes
	}
}

