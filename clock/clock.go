// Package clock provides the time source used when rendering dates, so
// tests can freeze and steer the current time instead of sleeping.
package clock

import (
	"sync"
	"time"
)

// Clock serves the current time.
type Clock interface {
	Now() time.Time
}

// System returns a Clock backed by the wall clock.
func System() Clock { return sysClock{} }

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now() }

// Manageable is a Clock that can be stopped, resumed, set and advanced. A
// stopped clock serves a fixed instant; a running one follows the wall
// clock from wherever it was last set. The zero value is running at wall
// time and ready to use.
type Manageable struct {
	mu     sync.Mutex
	offset time.Duration
	frozen time.Time
}

func NewManageable() *Manageable { return &Manageable{} }

func (c *Manageable) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.frozen.IsZero() {
		return c.frozen
	}
	return time.Now().Add(c.offset)
}

// Stop freezes the clock at its current value. Stopping a stopped clock
// does nothing.
func (c *Manageable) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.frozen.IsZero() {
		return
	}
	c.frozen = time.Now().Add(c.offset)
}

// Start resumes a stopped clock from its frozen value. Starting a running
// clock does nothing.
func (c *Manageable) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen.IsZero() {
		return
	}
	c.offset = time.Until(c.frozen)
	c.frozen = time.Time{}
}

// Running reports whether the clock follows the wall clock.
func (c *Manageable) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen.IsZero()
}

// Set moves the clock to t. A running clock keeps running from t; a
// stopped one stays stopped at t.
func (c *Manageable) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.frozen.IsZero() {
		c.frozen = t
		return
	}
	c.offset = time.Until(t)
}

// Wait advances the clock by d without sleeping.
func (c *Manageable) Wait(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.frozen.IsZero() {
		c.frozen = c.frozen.Add(d)
		return
	}
	c.offset += d
}
