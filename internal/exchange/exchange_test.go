package exchange

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(v float64) []float64 {
	return []float64{v, v + 1, v + 2}
}

func TestTakeLatestReturnsNewestOnly(t *testing.T) {
	e := New(3, 3)

	e.Publish(sample(1))
	e.Publish(sample(2))
	e.Publish(sample(3))
	e.Publish(sample(4)) // overwrites the oldest, never blocks

	dst := make([]float64, 3)
	require.True(t, e.TakeLatest(dst))
	assert.Equal(t, sample(4), dst)

	// Drained: nothing new since the take.
	assert.False(t, e.TakeLatest(dst))
}

func TestTakeLatestEmptyBeforeFirstPublish(t *testing.T) {
	e := New(3, 3)
	dst := make([]float64, 3)
	assert.False(t, e.TakeLatest(dst))
}

func TestPublishAfterTakeIsVisible(t *testing.T) {
	e := New(2, 3)
	dst := make([]float64, 3)

	e.Publish(sample(1))
	require.True(t, e.TakeLatest(dst))

	e.Publish(sample(2))
	require.True(t, e.TakeLatest(dst))
	assert.Equal(t, sample(2), dst)
}

func TestCapacityClampedToTwo(t *testing.T) {
	e := New(0, 3)
	assert.Len(t, e.slots, 2)
}

func TestPublishCopiesSample(t *testing.T) {
	e := New(2, 3)
	src := sample(7)
	e.Publish(src)
	src[0] = -1 // producer may reuse its buffer immediately

	dst := make([]float64, 3)
	require.True(t, e.TakeLatest(dst))
	assert.Equal(t, sample(7), dst)
}

func TestConcurrentPublishTake(t *testing.T) {
	e := New(3, 3)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			e.Publish(sample(float64(i)))
		}
	}()

	dst := make([]float64, 3)
	for i := 0; i < 1000; i++ {
		if e.TakeLatest(dst) {
			// A sample is never torn: its three values stay related.
			assert.Equal(t, dst[0]+1, dst[1])
			assert.Equal(t, dst[0]+2, dst[2])
		}
	}
	wg.Wait()
}
