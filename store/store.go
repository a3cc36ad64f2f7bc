// Package store implements the frame index: a persistence-agnostic record
// of captured MacFrames keyed by monotonic id, offering lookup by id and a
// range scan in insertion order.
package store

import "github.com/drunlade/zwzniff/frame"

// Entry is one persisted MacFrame plus its home/node addressing, decoded
// once by the caller from the frame's classic Z-Wave MAC base header before
// insertion (home_id/src/dst default to zero when the payload doesn't
// decode against that schema, e.g. a non-classic or truncated frame).
type Entry struct {
	ID        int64
	Frame     frame.MacFrame
	HomeID    uint32
	SrcNodeID uint8
	DstNodeID uint8
}

// Index is the persistence-agnostic frame index contract.
type Index interface {
	// Insert appends f to the index and returns its assigned id.
	Insert(f frame.MacFrame, homeID uint32, srcNodeID, dstNodeID uint8) (int64, error)
	// GetByID returns the entry with the given id, or ok=false if absent.
	GetByID(id int64) (Entry, bool, error)
	// Range returns up to limit entries starting at offset, in insertion
	// order.
	Range(offset, limit int) ([]Entry, error)
	// Close releases any underlying resources.
	Close() error
}
