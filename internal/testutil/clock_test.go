package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_Frozen(t *testing.T) {
	clock := ClockAt(2026, time.October, 21)
	first := clock.Now()
	assert.Equal(t, first, clock.Now())
	assert.Equal(t, time.Wednesday, first.Weekday())
}

func TestClock_SetAndAdvance(t *testing.T) {
	clock := ClockAt(2026, time.October, 21)

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 22, clock.Now().Day())

	target := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(target)
	assert.Equal(t, target, clock.Now())
}

func TestClock_ConcurrentAdvance(t *testing.T) {
	clock := NewClock(time.Unix(0, 0).UTC())
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), clock.Now().Unix())
}

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "habit-1", g.Generate().String())
	assert.Equal(t, "habit-2", g.Generate().String())

	g = NewSequentialIDs("h")
	assert.Equal(t, "h-1", g.Generate().String())
}
