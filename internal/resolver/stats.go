package resolver

import "sync"

// Stats accumulates run counters. All mutation happens through the
// controller's completion path; cascades never touch it directly.
type Stats struct {
	mu         sync.Mutex
	processed  int
	succeeded  int
	failed     int
	invalid    int
	cacheHits  int
	byStrategy map[Strategy]int
}

// NewStats creates a zeroed counter set.
func NewStats() *Stats {
	return &Stats{byStrategy: make(map[Strategy]int)}
}

// Record folds one completed outcome into the counters and returns the new
// processed total, which the controller uses for interval reporting.
func (s *Stats) Record(o Outcome) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed++

	switch o.Status {
	case StatusSuccess:
		s.succeeded++
		s.byStrategy[o.Strategy]++

		if o.Strategy == StrategyCached {
			s.cacheHits++
		}
	case StatusInvalid:
		s.invalid++
	default:
		// StatusNotFound and StatusError both count as failures.
		s.failed++
	}

	return s.processed
}

// Snapshot is a point-in-time copy of the counters.
//
// Invariants: Succeeded+Failed+Invalid == Processed, and the ByStrategy
// values sum to Succeeded.
type Snapshot struct {
	Processed  int              `json:"processed"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Invalid    int              `json:"invalid"`
	CacheHits  int              `json:"cache_hits"`
	ByStrategy map[Strategy]int `json:"by_strategy,omitempty"`
}

// Snapshot returns a consistent copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	by := make(map[Strategy]int, len(s.byStrategy))
	for k, v := range s.byStrategy {
		by[k] = v
	}

	return Snapshot{
		Processed:  s.processed,
		Succeeded:  s.succeeded,
		Failed:     s.failed,
		Invalid:    s.invalid,
		CacheHits:  s.cacheHits,
		ByStrategy: by,
	}
}

// SuccessRate returns the fraction of processed names that resolved,
// in [0, 1].
func (s Snapshot) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}

	return float64(s.Succeeded) / float64(s.Processed)
}
