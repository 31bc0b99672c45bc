// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package syncgate implements the "neural sync" transition: every page or
// category change is held back for a short fixed delay while the view is
// shown as syncing, then applied.
//
// The gate is single-flight without a queue. Calling Run while an action is
// pending restarts the delay and replaces the pending action, so the most
// recent action always completes and earlier ones are dropped.
package syncgate

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// DefaultDelay is the length of the sync animation.
const DefaultDelay = 500 * time.Millisecond

// Timer is the part of *time.Timer the gate needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. time.AfterFunc satisfies it
// once wrapped; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Gate.
type Option func(*Gate)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) Option {
	return func(g *Gate) { g.afterFunc = fn }
}

// WithSettle registers a callback run after a pending action has been
// applied and the lock released. The site uses it to request a scroll to
// the top of the page.
func WithSettle(fn func()) Option {
	return func(g *Gate) { g.onSettle = fn }
}

// Gate is a single-flight delayed-action lock. The zero value is not
// usable; construct with New.
type Gate struct {
	delay     time.Duration
	afterFunc AfterFunc
	onSettle  func()

	locked *atomic.Bool

	mu      sync.Mutex
	gen     uint64 // bumped on every Run; stale timers compare against it
	timer   Timer
	pending func()
	closed  bool
}

// New creates a gate with the given delay. A non-positive delay uses
// DefaultDelay.
func New(delay time.Duration, opts ...Option) *Gate {
	if delay <= 0 {
		delay = DefaultDelay
	}
	g := &Gate{
		delay:     delay,
		afterFunc: realAfterFunc,
		locked:    atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Locked reports whether an action is pending. Renderers use it to dim the
// page and disable input.
func (g *Gate) Locked() bool {
	return g.locked.Load()
}

// Delay returns the configured transition delay.
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Run locks the gate and schedules action to run after the delay. If an
// action is already pending, its timer is discarded and action takes its
// place with a fresh delay. Run never blocks on the action and never calls
// it synchronously. After Close, Run is a no-op.
func (g *Gate) Run(action func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || action == nil {
		return
	}

	g.gen++
	gen := g.gen
	if g.timer != nil {
		g.timer.Stop()
	}
	g.pending = action
	g.locked.Store(true)
	g.timer = g.afterFunc(g.delay, func() { g.fire(gen) })
}

// fire runs the pending action for generation gen. A timer that was
// superseded by a later Run finds a different generation and does nothing.
func (g *Gate) fire(gen uint64) {
	g.mu.Lock()
	if gen != g.gen || g.pending == nil {
		g.mu.Unlock()
		return
	}
	action := g.pending
	g.pending = nil
	g.timer = nil
	g.mu.Unlock()

	action()

	g.mu.Lock()
	settled := gen == g.gen
	if settled {
		g.locked.Store(false)
	}
	g.mu.Unlock()

	if settled && g.onSettle != nil {
		g.onSettle()
	}
}

// Close stops the timer. A pending action is run immediately so an
// in-flight transition is never lost. Close is idempotent.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	action := g.pending
	g.pending = nil
	g.mu.Unlock()

	if action != nil {
		action()
	}
	g.locked.Store(false)
}
