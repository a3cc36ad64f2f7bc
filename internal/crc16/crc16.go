// Package crc16 implements CRC-16/AUG-CCITT (polynomial 0x1021, initial
// value 0x1D0F, no input/output reflection), the variant used by the ZLF
// capture-file preamble.
package crc16

const (
	poly    uint16 = 0x1021
	initial uint16 = 0x1D0F
)

var table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Update folds one more byte into a running CRC. Start the running value at
// the initial value 0x1D0F and fold every byte in; the result equals
// Checksum of the whole buffer, which does the same in one call.
func Update(crc uint16, b byte) uint16 {
	return (crc << 8) ^ table[byte(crc>>8)^b]
}

// Checksum computes the CRC-16/AUG-CCITT of data.
func Checksum(data []byte) uint16 {
	crc := initial
	for _, b := range data {
		crc = Update(crc, b)
	}
	return crc
}
