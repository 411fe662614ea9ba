package stats

import (
	"slices"
	"sync"
	"time"
)

// Outcome classifies a render request.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
	OutcomeCanceled Outcome = "canceled"
	OutcomeError    Outcome = "error"
)

// DefaultCapacity is the number of samples kept when the window holds more
// requests than that; older samples are overwritten first.
const DefaultCapacity = 4096

type sample struct {
	at      time.Time
	elapsed time.Duration
	outcome Outcome
}

// Snapshot is a point-in-time aggregate of render samples.
type Snapshot struct {
	Count    int     `json:"count"`
	OK       int     `json:"ok"`
	NotFound int     `json:"not_found"`
	Canceled int     `json:"canceled"`
	Errors   int     `json:"errors"`
	MinUs    int64   `json:"min_us"`
	MaxUs    int64   `json:"max_us"`
	AvgUs    float64 `json:"avg_us"`
	P50Us    float64 `json:"p50_us"`
	P95Us    float64 `json:"p95_us"`
	P99Us    float64 `json:"p99_us"`
}

// RenderStats keeps the most recent render samples in a fixed ring and
// drops those older than the window. Record is O(1) amortized.
type RenderStats struct {
	mu     sync.Mutex
	ring   []sample
	head   int // oldest retained sample
	size   int
	window time.Duration
}

// NewRenderStats returns a recorder with DefaultCapacity slots.
func NewRenderStats(window time.Duration) *RenderStats {
	return NewRenderStatsCapacity(window, DefaultCapacity)
}

func NewRenderStatsCapacity(window time.Duration, capacity int) *RenderStats {
	if window <= 0 {
		window = time.Hour
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RenderStats{ring: make([]sample, capacity), window: window}
}

func (s *RenderStats) Record(d time.Duration, outcome Outcome) {
	now := time.Now()
	sm := sample{at: now, elapsed: max(d, 0), outcome: outcome}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	tail := (s.head + s.size) % len(s.ring)
	s.ring[tail] = sm
	if s.size == len(s.ring) {
		s.head = (s.head + 1) % len(s.ring)
	} else {
		s.size++
	}
}

// Len returns how many samples are currently retained.
func (s *RenderStats) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(time.Now())
	return s.size
}

func (s *RenderStats) Snapshot() Snapshot {
	s.mu.Lock()
	s.expireLocked(time.Now())
	var snap Snapshot
	micros := make([]int64, 0, s.size)
	var total int64
	for i := range s.size {
		sm := s.ring[(s.head+i)%len(s.ring)]
		switch sm.outcome {
		case OutcomeOK:
			snap.OK++
		case OutcomeNotFound:
			snap.NotFound++
		case OutcomeCanceled:
			snap.Canceled++
		default:
			snap.Errors++
		}
		us := sm.elapsed.Microseconds()
		micros = append(micros, us)
		total += us
	}
	s.mu.Unlock()

	if len(micros) == 0 {
		return snap
	}
	slices.Sort(micros)

	snap.Count = len(micros)
	snap.MinUs = micros[0]
	snap.MaxUs = micros[len(micros)-1]
	snap.AvgUs = float64(total) / float64(len(micros))
	snap.P50Us = quantile(micros, 50)
	snap.P95Us = quantile(micros, 95)
	snap.P99Us = quantile(micros, 99)
	return snap
}

// expireLocked drops samples older than the window. Samples are appended in
// time order, so only the oldest end needs checking.
func (s *RenderStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	for s.size > 0 && s.ring[s.head].at.Before(cutoff) {
		s.ring[s.head] = sample{}
		s.head = (s.head + 1) % len(s.ring)
		s.size--
	}
}

// quantile linearly interpolates between the two closest ranks of sorted.
func quantile(sorted []int64, pct float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[n-1])
	}
	rank := float64(n-1) * pct / 100
	i := int(rank)
	if i+1 >= n {
		return float64(sorted[i])
	}
	lo, hi := float64(sorted[i]), float64(sorted[i+1])
	return lo + (hi-lo)*(rank-float64(i))
}
