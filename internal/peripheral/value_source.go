package peripheral

import (
	"math/rand/v2"
	"sync"
	"time"
)

// ValueSource produces the characteristic payload on demand.
// Implementations must be safe for concurrent use by the read and notify paths.
type ValueSource interface {
	CurrentValue() Payload
}

// RandomSource draws a uniformly distributed value in [0, MaxValue) per call
type RandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource creates a RandomSource. A zero seed seeds from the clock.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomSource{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// CurrentValue returns a freshly drawn payload; it is never memoized
func (s *RandomSource) CurrentValue() Payload {
	s.mu.Lock()
	v := s.rnd.IntN(MaxValue)
	s.mu.Unlock()

	return EncodePayload(int32(v))
}

// ValueSourceFunc adapts a function to the ValueSource interface
type ValueSourceFunc func() Payload

// CurrentValue calls f()
func (f ValueSourceFunc) CurrentValue() Payload {
	return f()
}
