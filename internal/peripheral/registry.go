package peripheral

import (
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Peer identifies a connected central (its address as reported by the transport)
type Peer string

// TransitionListener receives the registry's empty/non-empty edges
type TransitionListener interface {
	Start()
	Stop()
}

// ChangeFunc observes one effective registry change. count is the number of
// connected peers after the change and connectedAt is when peer connected.
type ChangeFunc func(peer Peer, connected bool, count int, connectedAt time.Time)

// Registry tracks the set of connected peers.
//
// Start is signalled exactly once per empty -> non-empty edge and Stop exactly
// once per non-empty -> empty edge. Both, and the change observer, are invoked
// with the registry lock held, so they must not call back into the registry
// synchronously. Observed changes are therefore totally ordered.
type Registry struct {
	mu       sync.Mutex
	peers    *orderedmap.OrderedMap[Peer, time.Time] // peer -> connected at
	listener TransitionListener
	onChange ChangeFunc
}

// NewRegistry creates an empty registry. listener may be nil.
func NewRegistry(listener TransitionListener) *Registry {
	return &Registry{
		peers:    orderedmap.New[Peer, time.Time](),
		listener: listener,
	}
}

// OnChange sets the observer of effective changes; nil removes it
func (r *Registry) OnChange(fn ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Add registers peer. Returns false if it was already connected.
func (r *Registry) Add(peer Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, present := r.peers.Get(peer); present {
		return false
	}
	now := time.Now()
	r.peers.Set(peer, now)

	if r.peers.Len() == 1 && r.listener != nil {
		r.listener.Start()
	}
	if r.onChange != nil {
		r.onChange(peer, true, r.peers.Len(), now)
	}
	return true
}

// Remove unregisters peer and returns when it connected.
// Returns false if the peer was not connected.
func (r *Registry) Remove(peer Peer) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connectedAt, present := r.peers.Delete(peer)
	if !present {
		return time.Time{}, false
	}

	if r.peers.Len() == 0 && r.listener != nil {
		r.listener.Stop()
	}
	if r.onChange != nil {
		r.onChange(peer, false, r.peers.Len(), connectedAt)
	}
	return connectedAt, true
}

// Snapshot returns a copy of the connected peers in connection order
func (r *Registry) Snapshot() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()

	peers := make([]Peer, 0, r.peers.Len())
	for pair := r.peers.Oldest(); pair != nil; pair = pair.Next() {
		peers = append(peers, pair.Key)
	}
	return peers
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peers.Len()
}

func (r *Registry) Contains(peer Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, present := r.peers.Get(peer)
	return present
}
