package stats

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestInitialSnapshot(t *testing.T) {
	s := New(0)
	got := s.Snapshot()
	if got.Tokens != 1_290_384_756_201 || got.Nodes != 48_293_847 {
		t.Errorf("initial snapshot = %+v", got)
	}
	if s.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultInterval)
	}
}

func TestTickSteps(t *testing.T) {
	s := New(time.Second)
	s.rng = func() (int64, bool) { return 999_999, true }
	s.Tick()
	got := s.Snapshot()
	if got.Tokens != 1_290_384_756_201+999_999 {
		t.Errorf("tokens = %d", got.Tokens)
	}
	if got.Nodes != 48_293_847+12 {
		t.Errorf("nodes = %d", got.Nodes)
	}

	s.rng = func() (int64, bool) { return 0, false }
	s.Tick()
	if n := s.Snapshot().Nodes; n != 48_293_847+12-5 {
		t.Errorf("nodes after down step = %d", n)
	}
}

// TestRandomStepsBounded runs the real generator and checks the per-tick
// bounds.
func TestRandomStepsBounded(t *testing.T) {
	s := New(0)
	for i := 0; i < 1000; i++ {
		before := s.Snapshot()
		s.Tick()
		after := s.Snapshot()
		if d := after.Tokens - before.Tokens; d < 0 || d >= 1_000_000 {
			t.Fatalf("token step %d out of [0, 1e6)", d)
		}
		if d := after.Nodes - before.Nodes; d != 12 && d != -5 {
			t.Fatalf("node step %d, want 12 or -5", d)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for s.Snapshot().Nodes == 48_293_847 {
		select {
		case <-deadline:
			t.Fatal("counters never ticked")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	<-done
}
