package refgen

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Generator produces human-readable journal references of the form
// JE-YYYYMMDD-NNNN. The numeric suffix comes from a process-monotonic
// counter rather than a random suffix, so two entries posted in the same
// second cannot collide within a process. Uniqueness across restarts is
// carried by the journal's UUID primary key; the reference is display
// metadata.
type Generator struct {
	seq atomic.Uint64
}

// New creates a Generator seeded so suffixes restart from 1 each process.
func New() *Generator {
	return &Generator{}
}

// Next returns the reference for an entry dated on the given day.
func (g *Generator) Next(date time.Time) string {
	n := g.seq.Add(1)
	return fmt.Sprintf("JE-%s-%04d", date.Format("20060102"), n)
}
