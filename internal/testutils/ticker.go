package testutils

import (
	"sync"
	"time"

	"github.com/srg/blimp/internal/peripheral"
)

// ManualTicker is a peripheral.Ticker that fires only when Tick is called
type ManualTicker struct {
	Period time.Duration

	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether the owner released the ticker
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick delivers one tick. It blocks until the scheduler goroutine receives
// it, and returns false if nobody received within timeout.
func (t *ManualTicker) Tick(timeout time.Duration) bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(timeout):
		return false
	}
}

// ManualClock is a peripheral.TickerFactory recording every ticker it creates
type ManualClock struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// NewTicker implements peripheral.TickerFactory
func (c *ManualClock) NewTicker(d time.Duration) peripheral.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &ManualTicker{Period: d, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

// Count returns how many tickers were created
func (c *ManualClock) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Last returns the most recently created ticker, or nil
func (c *ManualClock) Last() *ManualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}
