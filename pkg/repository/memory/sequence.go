package memory

import "sync"

// sequenceStore is a mutex-guarded per-year counter mirroring the server-side
// atomic sequence used in production.
type sequenceStore struct {
	mu       sync.Mutex
	counters map[int]int64
}

func newSequenceStore() *sequenceStore {
	return &sequenceStore{
		counters: make(map[int]int64),
	}
}

func (s *sequenceStore) next(year int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[year]++
	return s.counters[year]
}
