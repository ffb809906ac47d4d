package ringchan_test

import (
	"sync"
	"testing"

	"github.com/srg/blimp/internal/ringchan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](rc *ringchan.RingChannel[T]) []T {
	var out []T
	for v := range rc.C() {
		out = append(out, v)
	}
	return out
}

func TestForceSendOverwritesOldest(t *testing.T) {
	rc := ringchan.New[int](3)

	for i := 0; i < 10; i++ {
		dropped := rc.ForceSend(i)
		assert.Equal(t, i >= 3, dropped, "send %d MUST drop only when the buffer is full", i)
	}
	rc.Close()

	assert.Equal(t, []int{7, 8, 9}, drain(rc), "newest elements MUST survive in order")

	m := rc.GetMetrics()
	assert.Equal(t, int64(10), m.Written)
	assert.Equal(t, int64(7), m.Overwritten)
	assert.Zero(t, m.Rejected)
}

func TestLenAndCap(t *testing.T) {
	rc := ringchan.New[string](2)

	rc.ForceSend("a")
	assert.Equal(t, 1, rc.Len())
	assert.Equal(t, 2, rc.Cap())

	rc.ForceSend("b")
	rc.ForceSend("c")
	assert.Equal(t, 2, rc.Len(), "length MUST stay bounded by capacity")

	rc.Close()
	assert.Equal(t, []string{"b", "c"}, drain(rc))
}

func TestSendAfterCloseIsRejected(t *testing.T) {
	rc := ringchan.New[int](1)
	rc.Close()
	rc.Close()

	assert.NotPanics(t, func() {
		rc.ForceSend(1)
		rc.ForceSend(2)
	}, "sends after Close MUST NOT panic")
	assert.Equal(t, int64(2), rc.GetMetrics().Rejected)
}

func TestConcurrentProducersNeverBlock(t *testing.T) {
	// GOAL: Verify concurrent producers with no consumer never block and keep the buffer bounded
	//
	// TEST SCENARIO: 8 producers × 1000 sends into capacity 16 → all return → 16 buffered, counters consistent

	rc := ringchan.New[int](16)

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				rc.ForceSend(p*1000 + i)
			}
		}(p)
	}
	wg.Wait()
	rc.Close()

	require.Len(t, drain(rc), 16)
	m := rc.GetMetrics()
	assert.Equal(t, int64(8000), m.Written)
	assert.Equal(t, int64(8000-16), m.Overwritten)
}

func TestNewRejectsZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { ringchan.New[int](0) })
}
