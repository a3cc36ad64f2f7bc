package decode

import "encoding/binary"

// Addressing extracts HomeID, SourceNodeID and DestinationNodeID from a
// DecodedChunk produced by ZWaveMacDecoder, reading them out of its
// "BaseHeader" sub-chunk. It reports ok=false if chunk is nil or doesn't
// carry a BaseHeader group with all three fields.
func Addressing(chunk *DecodedChunk) (homeID uint32, srcNodeID, dstNodeID uint8, ok bool) {
	if chunk == nil {
		return 0, 0, 0, false
	}
	var base *DecodedChunk
	for _, f := range chunk.Fields {
		if f.Name == "BaseHeader" && f.Chunk != nil {
			base = f.Chunk
			break
		}
	}
	if base == nil {
		return 0, 0, 0, false
	}

	var haveHome, haveSrc, haveDst bool
	for _, f := range base.Fields {
		switch f.Name {
		case "HomeID":
			if len(f.Value) != 4 {
				return 0, 0, 0, false
			}
			homeID = binary.BigEndian.Uint32(f.Value)
			haveHome = true
		case "SourceNodeID":
			if len(f.Value) != 1 {
				return 0, 0, 0, false
			}
			srcNodeID = f.Value[0]
			haveSrc = true
		case "DestinationNodeID":
			if len(f.Value) != 1 {
				return 0, 0, 0, false
			}
			dstNodeID = f.Value[0]
			haveDst = true
		}
	}
	if !haveHome || !haveSrc || !haveDst {
		return 0, 0, 0, false
	}
	return homeID, srcNodeID, dstNodeID, true
}
