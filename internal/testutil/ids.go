package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/habits/internal/habit"
)

// SequentialIDs generates "<prefix>-1", "<prefix>-2", ... and never runs out.
//
// Unlike habit.FixedGenerator, which panics once its list is consumed,
// SequentialIDs suits tests that create an unknown number of habits.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "habit".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "habit"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate implements habit.IDGenerator.
func (g *SequentialIDs) Generate() habit.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return habit.StringID(fmt.Sprintf("%s-%d", g.prefix, g.n))
}
