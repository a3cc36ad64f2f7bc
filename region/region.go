// Package region defines the closed set of Z-Wave radio regions and the two
// numeric encodings used for them: the native encoding reported by Zniffer
// hardware and capture files, and the PTI encoding used in DCH trailers.
package region

import "fmt"

// Region is a closed enumeration of Z-Wave regulatory regions.
type Region uint8

const (
	EU Region = iota
	US
	ANZ
	HK
	IN
	IL
	RU
	CN
	USLR
	EULR
	JP
	KR
)

func (r Region) String() string {
	switch r {
	case EU:
		return "EU"
	case US:
		return "US"
	case ANZ:
		return "ANZ"
	case HK:
		return "HK"
	case IN:
		return "IN"
	case IL:
		return "IL"
	case RU:
		return "RU"
	case CN:
		return "CN"
	case USLR:
		return "USLR"
	case EULR:
		return "EULR"
	case JP:
		return "JP"
	case KR:
		return "KR"
	default:
		return fmt.Sprintf("Region(%d)", uint8(r))
	}
}

// nativeCodes maps the device/capture-file byte value to a Region.
var nativeCodes = map[uint8]Region{
	0:  EU,
	1:  US,
	2:  ANZ,
	3:  HK,
	5:  IN,
	6:  IL,
	7:  RU,
	8:  CN,
	9:  USLR,
	11: EULR,
	32: JP,
	33: KR,
}

var nativeEncode = map[Region]uint8{
	EU:   0,
	US:   1,
	ANZ:  2,
	HK:   3,
	IN:   5,
	IL:   6,
	RU:   7,
	CN:   8,
	USLR: 9,
	EULR: 11,
	JP:   32,
	KR:   33,
}

// ptiCodes maps the PTI radio_config low-5-bits value to a Region.
//
// USLRBACK and USLRENDDEVICE are PTI-only variants of USLR (see design note
// (b) in the project's open questions); both decode to USLR.
var ptiCodes = map[uint8]Region{
	1:  EU,
	2:  US,
	3:  ANZ,
	4:  HK,
	5:  IN,
	7:  JP,
	8:  RU,
	9:  IL,
	10: KR,
	11: CN,
	12: USLR,
	13: USLR, // USLRBACK
	14: USLR, // USLRENDDEVICE
	15: EULR,
}

var ptiEncode = map[Region]uint8{
	EU:   1,
	US:   2,
	ANZ:  3,
	HK:   4,
	IN:   5,
	JP:   7,
	RU:   8,
	IL:   9,
	KR:   10,
	CN:   11,
	USLR: 12,
	EULR: 15,
}

// FromNative converts a device/capture-file region byte to a Region. It
// fails on unknown codes rather than silently defaulting.
func FromNative(code uint8) (Region, bool) {
	r, ok := nativeCodes[code]
	return r, ok
}

// ToNative converts a Region to its device/capture-file byte encoding.
func (r Region) ToNative() (uint8, bool) {
	v, ok := nativeEncode[r]
	return v, ok
}

// FromPTI converts a DCH-trailer PTI region code to a Region.
func FromPTI(code uint8) (Region, bool) {
	r, ok := ptiCodes[code]
	return r, ok
}

// ToPTI converts a Region to its PTI trailer encoding. A Region with no PTI
// mapping (none exist today, but future regions may lack one) reports ok=false.
func (r Region) ToPTI() (uint8, bool) {
	v, ok := ptiEncode[r]
	return v, ok
}

// FromToken parses a case-insensitive CLI region token (eu, us, anz, hk, in,
// il, ru, cn, uslr, eulr, jp, kr).
func FromToken(token string) (Region, bool) {
	switch lower(token) {
	case "eu":
		return EU, true
	case "us":
		return US, true
	case "anz":
		return ANZ, true
	case "hk":
		return HK, true
	case "in":
		return IN, true
	case "il":
		return IL, true
	case "ru":
		return RU, true
	case "cn":
		return CN, true
	case "uslr":
		return USLR, true
	case "eulr":
		return EULR, true
	case "jp":
		return JP, true
	case "kr":
		return KR, true
	default:
		return 0, false
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
