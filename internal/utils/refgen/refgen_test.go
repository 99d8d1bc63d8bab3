package refgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextFormat(t *testing.T) {
	g := New()
	date := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "JE-20250115-0001", g.Next(date))
	assert.Equal(t, "JE-20250115-0002", g.Next(date))
}

func TestNextUniqueUnderConcurrency(t *testing.T) {
	g := New()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	const workers = 50
	refs := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			refs <- g.Next(date)
		}()
	}
	wg.Wait()
	close(refs)

	seen := make(map[string]struct{}, workers)
	for ref := range refs {
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, workers)
}
