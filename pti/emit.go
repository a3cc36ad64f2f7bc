package pti

import (
	"fmt"

	"github.com/drunlade/zwzniff/frame"
)

// appendedInfoCfg is the end-of-appended-info byte written after the
// 4-byte trailer. Its value is observed as 0x51 in re-emitted data but its
// semantic role in captured data is not documented upstream; parsing
// tolerates any value there (see Parser), Emit always writes this one
// (open question (a)). Its low 3 bits (appended-info version = 1) and bits
// 3-5 (trailer length - 3 = 2, i.e. a 5-byte trailer: rssi, region,
// channel, status, this byte) must stay consistent with the 4-byte trailer
// plus this byte that Emit actually writes.
const appendedInfoCfg = 0x51

// dchVersion2 is the DCH protocol version Emit writes; parsing also accepts
// v3, but Emit only ever produces the shorter, simpler v2 layout.
const dchVersion2 = 2

// dchVersion2HeaderFiller is the deterministic filler written between the
// version field and the PTI payload for a v2 envelope. Its content carries
// no meaning to PTI consumers; its length is fixed so the payload lands at
// the documented offset 14 from '[' (1 start-symbol byte + 2 length bytes +
// 2 version bytes + this 9-byte filler = 14).
var dchVersion2HeaderFiller = make([]byte, dchPayloadOffset[2]-1-2-2)

// Emit builds a DCH v2 envelope around a synthesized PTI payload for f.
// Regions with no PTI encoding fail re-emission.
func Emit(f frame.MacFrame) ([]byte, error) {
	ptiRegion, ok := f.Region.ToPTI()
	if !ok {
		return nil, fmt.Errorf("pti: region %s has no PTI encoding", f.Region)
	}

	payload := make([]byte, 0, len(f.Payload)+7)
	payload = append(payload, hwRxStart)
	payload = append(payload, f.Payload...)
	payload = append(payload, hwRxSuccess)
	payload = append(payload, rssiToPTIRaw(f.RSSI), ptiRegion, f.Channel, protocolZWave, appendedInfoCfg)

	body := make([]byte, 0, 2+len(dchVersion2HeaderFiller)+len(payload))
	body = append(body, byte(dchVersion2), 0)
	body = append(body, dchVersion2HeaderFiller...)
	body = append(body, payload...)

	length := 2 + len(body) // length counts itself plus everything up to ']'
	env := make([]byte, 0, length+2)
	env = append(env, dchStart, byte(length), byte(length>>8))
	env = append(env, body...)
	env = append(env, dchEnd)
	return env, nil
}

// rssiToPTIRaw inverts Parser's appended-info-version->=1 trailer transform
// (subtract 0x32, saturating, then take the absolute value) so that a
// non-negative f.RSSI round-trips through Emit and Parser unchanged; a
// negative f.RSSI comes back as absInt8(f.RSSI). It writes 0x32 - |rssi|,
// which stays within int8 range for every input, so Parser's subtraction
// never saturates. appendedInfoCfg always encodes appended-info version 1,
// so Parser always applies that transform to what Emit writes here.
func rssiToPTIRaw(rssi int8) byte {
	return byte(0x32 - int(absInt8(rssi)))
}

func saturatingAdd(a, b int8) int8 {
	r := int(a) + int(b)
	if r > 127 {
		return 127
	}
	if r < -128 {
		return -128
	}
	return int8(r)
}
