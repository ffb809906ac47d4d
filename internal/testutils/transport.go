package testutils

import (
	"sync"

	"github.com/srg/blimp/internal/peripheral"
)

// Notification is a single send captured by RecordingTransport
type Notification struct {
	Peer    peripheral.Peer
	Payload peripheral.Payload
}

// RecordingTransport captures every notification and can fail selected peers
type RecordingTransport struct {
	mu     sync.Mutex
	sent   []Notification
	fail   map[peripheral.Peer]error
	panics map[peripheral.Peer]any
	notif  chan Notification
}

func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{
		fail:   make(map[peripheral.Peer]error),
		panics: make(map[peripheral.Peer]any),
		notif:  make(chan Notification, 256),
	}
}

// FailFor makes every send to peer return err
func (r *RecordingTransport) FailFor(peer peripheral.Peer, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[peer] = err
}

// PanicFor makes every send to peer panic with v
func (r *RecordingTransport) PanicFor(peer peripheral.Peer, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics[peer] = v
}

// Notify implements peripheral.Transport
func (r *RecordingTransport) Notify(peer peripheral.Peer, payload peripheral.Payload) error {
	r.mu.Lock()
	if v, ok := r.panics[peer]; ok {
		r.mu.Unlock()
		panic(v)
	}
	err := r.fail[peer]
	n := Notification{Peer: peer, Payload: payload}
	if err == nil {
		r.sent = append(r.sent, n)
	}
	r.mu.Unlock()

	if err != nil {
		return peripheral.NewSendError(peer, err)
	}
	select {
	case r.notif <- n:
	default:
	}
	return nil
}

// Sent returns a copy of the successful sends so far
func (r *RecordingTransport) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// SentTo returns the successful sends to peer
func (r *RecordingTransport) SentTo(peer peripheral.Peer) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Notification
	for _, n := range r.sent {
		if n.Peer == peer {
			out = append(out, n)
		}
	}
	return out
}

// Notifications streams successful sends as they happen
func (r *RecordingTransport) Notifications() <-chan Notification {
	return r.notif
}
