// Package frame defines MacFrame, the reconstructed Z-Wave radio frame that
// every frame reconstructor (zniffer, pti, capture) produces and every sink
// (bus, store, pti re-emitter) consumes.
package frame

import (
	"fmt"

	"github.com/drunlade/zwzniff/region"
)

// MacFrame is a reconstructed Z-Wave MAC frame together with its radio
// metadata. Payload length must never exceed 255 bytes.
type MacFrame struct {
	ID        uint64
	Timestamp uint64
	Region    region.Region
	Channel   uint8
	Bitrate   region.Speed
	RSSI      int8
	Payload   []byte
}

const MaxPayloadLen = 255

// Validate checks the payload length bound from the data model.
// Channel/bitrate consistency with region is left to the producer (the
// PTI/Zniffer tables already enforce it); Validate only guards the
// universal bound.
func (f MacFrame) Validate() error {
	if len(f.Payload) > MaxPayloadLen {
		return fmt.Errorf("frame: payload length %d exceeds %d", len(f.Payload), MaxPayloadLen)
	}
	return nil
}

func (f MacFrame) String() string {
	return fmt.Sprintf("MacFrame{id=%d region=%s channel=%d bitrate=%s rssi=%d len=%d}",
		f.ID, f.Region, f.Channel, f.Bitrate, f.RSSI, len(f.Payload))
}
