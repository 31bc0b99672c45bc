// Package stats simulates the live "tokens processed" and "active nodes"
// counters shown across the site. The counters tick on their own goroutine
// and are read lock-free by request handlers.
package stats

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.uber.org/atomic"
)

const (
	// DefaultInterval is how often the counters tick.
	DefaultInterval = 200 * time.Millisecond

	initialTokens = 1_290_384_756_201
	initialNodes  = 48_293_847

	maxTokenStep = 1_000_000
	nodesUp      = 12
	nodesDown    = -5
)

// Snapshot is a point-in-time read of the counters.
type Snapshot struct {
	Tokens int64 `json:"tokens"`
	Nodes  int64 `json:"nodes"`
}

// Simulator owns the counters.
type Simulator struct {
	interval time.Duration
	rng      func() (tokenStep int64, nodesStepUp bool)

	tokens *atomic.Int64
	nodes  *atomic.Int64
}

// New creates a simulator at the initial counter values. A non-positive
// interval uses DefaultInterval.
func New(interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{
		interval: interval,
		rng: func() (int64, bool) {
			return rand.Int64N(maxTokenStep), rand.IntN(2) == 0
		},
		tokens: atomic.NewInt64(initialTokens),
		nodes:  atomic.NewInt64(initialNodes),
	}
}

// Snapshot returns the current counter values.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{Tokens: s.tokens.Load(), Nodes: s.nodes.Load()}
}

// Tick advances the counters by one step.
func (s *Simulator) Tick() {
	step, up := s.rng()
	s.tokens.Add(step)
	if up {
		s.nodes.Add(nodesUp)
	} else {
		s.nodes.Add(nodesDown)
	}
}

// Run ticks the counters every interval until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Debug("stats simulator started", "interval", s.interval.String())
	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			slog.Debug("stats simulator stopped")
			return
		}
	}
}
