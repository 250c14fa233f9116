// File: internal/services/ai/cooldown.go
package ai

import (
	"sync"
	"time"
)

// FallbackGate tracks the cool-down window entered after a quota or
// rate-limit failure on the remote model. While the gate is active, callers
// skip the remote call entirely and use their local fallback, so a failing
// dependency is not hammered. Each pipeline step owns an independent gate;
// its state lives for the process lifetime.
type FallbackGate struct {
	mu      sync.Mutex
	window  time.Duration
	armedAt time.Time
	armed   bool
	clock   func() time.Time
}

func NewFallbackGate(window time.Duration) *FallbackGate {
	return &FallbackGate{
		window: window,
		clock:  time.Now,
	}
}

// Active reports whether the cool-down window is still open. An expired
// window disarms the gate so the next caller retries the remote model.
func (g *FallbackGate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.armed {
		return false
	}
	if g.clock().Sub(g.armedAt) >= g.window {
		g.armed = false
		return false
	}
	return true
}

// Arm opens the cool-down window starting now.
func (g *FallbackGate) Arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
	g.armedAt = g.clock()
}

// SetClock overrides the time source, for tests.
func (g *FallbackGate) SetClock(clock func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clock = clock
}
