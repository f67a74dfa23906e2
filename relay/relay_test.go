package relay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/squelch/relay"
)

func TestPushEvictsOldest(t *testing.T) {
	q := relay.New[int](3)
	for i := 1; i <= 4; i++ {
		q.Push(i)
		assert.True(t, q.Len() <= q.Cap())
	}
	// item 1 evicted, order preserved
	for _, expected := range []int{2, 3, 4} {
		v, ok := q.TryPop()
		assert.True(t, ok)
		assert.Equal(t, expected, v)
	}
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestPushNeverDropsNewest(t *testing.T) {
	q := relay.New[int](1)
	q.Push(1)
	q.Push(2)
	v, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPopTimeout(t *testing.T) {
	q := relay.New[int](1)

	start := time.Now()
	_, ok := q.Pop(10 * time.Millisecond)
	assert.False(t, ok)
	assert.True(t, time.Since(start) >= 10*time.Millisecond)

	q.Push(42)
	v, ok := q.Pop(time.Second)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestConcurrentPushPop(t *testing.T) {
	q := relay.New[int](4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			q.Push(i)
		}
	}()
	var popped int
	for {
		select {
		case <-done:
			for {
				if _, ok := q.TryPop(); !ok {
					assert.True(t, popped <= 1000)
					return
				}
				popped++
			}
		default:
			if _, ok := q.TryPop(); ok {
				popped++
			}
			assert.True(t, q.Len() <= q.Cap())
		}
	}
}

func TestNewPanicsOnInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() {
		relay.New[int](0)
	})
}
