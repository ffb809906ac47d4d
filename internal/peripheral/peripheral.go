package peripheral

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srg/blimp/internal/ringchan"
)

// DefaultEventBuffer is the default capacity of the peer event stream
const DefaultEventBuffer = 64

// Options configures a Peripheral
type Options struct {
	ServiceUUID        string
	CharacteristicUUID string
	NotifyPeriod       time.Duration // zero means DefaultNotifyPeriod
	EventBuffer        int           // zero means DefaultEventBuffer
	Source             ValueSource   // nil means a clock-seeded RandomSource
	SchedulerOptions   []SchedulerOption
}

// PeerEventType marks a peer connecting or disconnecting
type PeerEventType int

const (
	PeerConnected PeerEventType = iota
	PeerDisconnected
)

func (t PeerEventType) String() string {
	if t == PeerConnected {
		return "connected"
	}
	return "disconnected"
}

// PeerEvent is published for every effective registry change
type PeerEvent struct {
	Type      PeerEventType
	Peer      Peer
	Connected int // peers connected after the change
	At        time.Time
}

// Stats is a snapshot of peripheral activity counters
type Stats struct {
	Cycles            uint64
	CyclesSkipped     uint64
	NotificationsSent uint64
	NotificationsFail uint64
	ReadsServed       uint64
	ReadsRejected     uint64
	EventsPublished   uint64
	EventsDropped     uint64 // overwritten before being consumed
}

// Peripheral wires the registry, scheduler and value source to a Transport
// and exposes the inbound event surface the transport drives.
type Peripheral struct {
	serviceUUID string
	charUUID    string

	source    ValueSource
	registry  *Registry
	scheduler *Scheduler
	events    *ringchan.RingChannel[PeerEvent]
	logger    *logrus.Logger

	readsServed   atomic.Uint64
	readsRejected atomic.Uint64

	closeOnce sync.Once
	closed    atomic.Bool
}

// New creates a Peripheral sending notifications through transport
func New(opts Options, transport Transport, logger *logrus.Logger) (*Peripheral, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidOptions)
	}
	if opts.ServiceUUID == "" || opts.CharacteristicUUID == "" {
		return nil, fmt.Errorf("%w: service and characteristic UUIDs are required", ErrInvalidOptions)
	}
	if opts.NotifyPeriod < 0 {
		return nil, fmt.Errorf("%w: notify period must be positive, got %s", ErrInvalidOptions, opts.NotifyPeriod)
	}
	if opts.NotifyPeriod == 0 {
		opts.NotifyPeriod = DefaultNotifyPeriod
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultEventBuffer
	}
	if opts.Source == nil {
		opts.Source = NewRandomSource(0)
	}

	p := &Peripheral{
		serviceUUID: opts.ServiceUUID,
		charUUID:    opts.CharacteristicUUID,
		source:      opts.Source,
		events:      ringchan.New[PeerEvent](opts.EventBuffer),
		logger:      logger,
	}
	p.scheduler = NewScheduler(opts.NotifyPeriod, func() []Peer { return p.registry.Snapshot() },
		opts.Source, transport, logger, opts.SchedulerOptions...)
	p.registry = NewRegistry(p.scheduler)
	p.registry.OnChange(p.peerChanged)

	return p, nil
}

// ServiceUUID returns the exposed service identifier
func (p *Peripheral) ServiceUUID() string { return p.serviceUUID }

// CharacteristicUUID returns the exposed characteristic identifier
func (p *Peripheral) CharacteristicUUID() string { return p.charUUID }

// OnConnected registers peer; the first peer starts the scheduler
func (p *Peripheral) OnConnected(peer Peer) {
	if p.closed.Load() {
		p.logger.WithField("peer", peer).Debug("Ignoring connect after close")
		return
	}
	if !p.registry.Add(peer) {
		p.logger.WithField("peer", peer).Debug("Peer already connected")
	}
}

// OnDisconnected unregisters peer; the last peer stops the scheduler
func (p *Peripheral) OnDisconnected(peer Peer) {
	if _, removed := p.registry.Remove(peer); !removed {
		p.logger.WithField("peer", peer).Debug("Disconnect for unknown peer")
	}
}

// peerChanged runs under the registry lock, so event order and counts match
// the order of registry changes
func (p *Peripheral) peerChanged(peer Peer, connected bool, count int, connectedAt time.Time) {
	if connected {
		p.logger.WithFields(logrus.Fields{
			"peer":      peer,
			"connected": count,
		}).Info("Peer connected")
		p.publish(PeerConnected, peer, count)
		return
	}

	p.logger.WithFields(logrus.Fields{
		"peer":      peer,
		"connected": count,
		"duration":  time.Since(connectedAt).Round(time.Millisecond),
	}).Info("Peer disconnected")
	p.publish(PeerDisconnected, peer, count)
}

// HandleRead serves a characteristic read. Any identifier other than the
// exposed characteristic yields ErrUnknownCharacteristic and an empty payload.
// Reads after Close fail with ErrClosed.
func (p *Peripheral) HandleRead(characteristicUUID string) (Payload, error) {
	if p.closed.Load() {
		p.readsRejected.Add(1)
		p.logger.Debug("Read after close")
		return Payload{}, ErrClosed
	}
	if !SameUUID(characteristicUUID, p.charUUID) {
		p.readsRejected.Add(1)
		p.logger.WithField("uuid", characteristicUUID).Debug("Read for unknown characteristic")
		return Payload{}, &Error{Kind: UnknownCharacteristic, UUID: characteristicUUID}
	}

	payload := p.source.CurrentValue()
	p.readsServed.Add(1)
	p.logger.WithField("value", payload.Value()).Debug("Read served")
	return payload, nil
}

// Peers returns a snapshot of connected peers
func (p *Peripheral) Peers() []Peer {
	return p.registry.Snapshot()
}

// State returns the scheduler state
func (p *Peripheral) State() SchedulerState {
	return p.scheduler.State()
}

// Events returns the peer event stream; it is closed by Close
func (p *Peripheral) Events() <-chan PeerEvent {
	return p.events.C()
}

// Stats returns a snapshot of the activity counters
func (p *Peripheral) Stats() Stats {
	events := p.events.GetMetrics()
	return Stats{
		Cycles:            p.scheduler.cycles.Load(),
		CyclesSkipped:     p.scheduler.skipped.Load(),
		NotificationsSent: p.scheduler.sent.Load(),
		NotificationsFail: p.scheduler.failed.Load(),
		ReadsServed:       p.readsServed.Load(),
		ReadsRejected:     p.readsRejected.Load(),
		EventsPublished:   uint64(events.Written),
		EventsDropped:     uint64(events.Overwritten),
	}
}

// Close releases the scheduler's timer and closes the event stream. Idempotent.
func (p *Peripheral) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.scheduler.Close()
		p.events.Close()

		m := p.events.GetMetrics()
		p.logger.WithFields(logrus.Fields{
			"events":  m.Written,
			"dropped": m.Overwritten,
			"late":    m.Rejected,
		}).Debug("Peripheral closed")
	})
	return nil
}

func (p *Peripheral) publish(t PeerEventType, peer Peer, connected int) {
	if p.events.ForceSend(PeerEvent{Type: t, Peer: peer, Connected: connected, At: time.Now()}) {
		p.logger.Debug("Peer event buffer full, oldest event dropped")
	}
}

// SameUUID compares two UUID strings ignoring case and dashes.
// Strings that are not UUIDs are compared case-insensitively.
func SameUUID(a, b string) bool {
	ua, errA := uuid.Parse(a)
	ub, errB := uuid.Parse(b)
	if errA == nil && errB == nil {
		return ua == ub
	}
	return strings.EqualFold(strings.ReplaceAll(a, "-", ""), strings.ReplaceAll(b, "-", ""))
}
