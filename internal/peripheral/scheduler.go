package peripheral

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/blimp/internal/groutine"
)

// DefaultNotifyPeriod is the interval between notification cycles
const DefaultNotifyPeriod = 2 * time.Second

// SchedulerState is the notification scheduler state
type SchedulerState int

const (
	Idle SchedulerState = iota
	Running
)

func (s SchedulerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Transport performs notification sends on behalf of the core.
// Notify must not block for long; timeouts are the transport's concern.
type Transport interface {
	Notify(peer Peer, payload Payload) error
}

// Ticker is the subset of time.Ticker the scheduler depends on
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the production TickerFactory backed by time.NewTicker
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithTicker overrides the ticker factory (tests drive cycles manually)
func WithTicker(factory TickerFactory) SchedulerOption {
	return func(s *Scheduler) {
		if factory != nil {
			s.newTicker = factory
		}
	}
}

// Scheduler pushes one freshly drawn payload to every connected peer per period
// while at least one peer is connected.
//
// Start and Stop are idempotent and never block; they are driven by the
// Registry's edges. Stop cancels future cycles only: a cycle that already
// took its snapshot finishes all of its sends.
type Scheduler struct {
	period    time.Duration
	peers     func() []Peer
	source    ValueSource
	transport Transport
	newTicker TickerFactory
	logger    *logrus.Logger

	mu         sync.Mutex
	state      SchedulerState
	cancel     context.CancelFunc
	generation uint64
	closed     bool
	wg         sync.WaitGroup

	cycles  atomic.Uint64 // completed cycles that had peers
	skipped atomic.Uint64 // cycles that found no peers
	sent    atomic.Uint64
	failed  atomic.Uint64
}

// NewScheduler creates an idle scheduler. peers supplies the snapshot of
// recipients for each cycle.
func NewScheduler(period time.Duration, peers func() []Peer, source ValueSource, transport Transport, logger *logrus.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	if period <= 0 {
		period = DefaultNotifyPeriod
	}

	s := &Scheduler{
		period:    period,
		peers:     peers,
		source:    source,
		transport: transport,
		newTicker: NewTimeTicker,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start enters Running and schedules the first cycle one period from now.
// No-op when already running or closed.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state == Running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := s.newTicker(s.period)

	s.generation++
	s.cancel = cancel
	s.state = Running

	s.logger.WithFields(logrus.Fields{
		"period":     s.period,
		"generation": s.generation,
	}).Info("Notification scheduler running")

	groutine.GoTracked(ctx, &s.wg, fmt.Sprintf("notify-scheduler-%d", s.generation), func(ctx context.Context) {
		defer ticker.Stop()
		s.run(ctx, ticker)
	})
}

// Stop enters Idle and cancels all future cycles. No-op when idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return
	}
	s.cancel()
	s.cancel = nil
	s.state = Idle

	s.logger.WithField("generation", s.generation).Info("Notification scheduler idle")
}

// State returns the current scheduler state
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close stops the scheduler, waits for its goroutine to exit and rejects
// further Start calls. Must not be called from within Transport.Notify.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	if s.state == Running {
		s.cancel()
		s.cancel = nil
		s.state = Idle
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, ticker Ticker) {
	s.logger.WithField("goroutine", groutine.GetName(ctx)).Debug("Scheduler goroutine started")
	defer s.logger.WithField("goroutine", groutine.GetName(ctx)).Debug("Scheduler goroutine exiting")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			// both cases may be ready at once; cancellation wins
			if ctx.Err() != nil {
				return
			}
			s.safeCycle()
		}
	}
}

// safeCycle keeps a panicking value source from killing the scheduler goroutine
func (s *Scheduler) safeCycle() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Notification cycle panicked")
		}
	}()
	s.cycle()
}

func (s *Scheduler) cycle() {
	peers := s.peers()
	if len(peers) == 0 {
		s.skipped.Add(1)
		s.logger.Debug("Notification cycle skipped: no peers")
		return
	}

	payload := s.source.CurrentValue()
	defer s.cycles.Add(1)

	s.logger.WithFields(logrus.Fields{
		"peers": len(peers),
		"value": payload.Value(),
	}).Debug("Notification cycle")

	for _, peer := range peers {
		if err := s.send(peer, payload); err != nil {
			s.failed.Add(1)
			s.logger.WithFields(logrus.Fields{
				"peer":  peer,
				"error": err,
			}).Warn("Notification send failed")
			continue
		}
		s.sent.Add(1)
	}
}

// send isolates a panicking transport to the one peer it was notifying
func (s *Scheduler) send(peer Peer, payload Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"peer":  peer,
				"panic": r,
			}).Error("Notification send panicked")
			err = NewSendError(peer, fmt.Errorf("transport panic: %v", r))
		}
	}()
	return s.transport.Notify(peer, payload)
}
