package store

import (
	"sync"

	"github.com/drunlade/zwzniff/frame"
)

// Memory is an in-process Index backed by a growable slice, acceptable per
// the persistence-agnostic contract when durability is not required (tests,
// and the client command when no --db path is given).
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
}

// NewMemory returns an empty in-memory Index.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) Insert(f frame.MacFrame, homeID uint32, srcNodeID, dstNodeID uint8) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.entries = append(m.entries, Entry{
		ID:        id,
		Frame:     f,
		HomeID:    homeID,
		SrcNodeID: srcNodeID,
		DstNodeID: dstNodeID,
	})
	return id, nil
}

func (m *Memory) GetByID(id int64) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (m *Memory) Range(offset, limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if offset >= len(m.entries) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(m.entries) {
		end = len(m.entries)
	}
	out := make([]Entry, end-offset)
	copy(out, m.entries[offset:end])
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
