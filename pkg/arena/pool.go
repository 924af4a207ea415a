package arena

import (
	"sync"
)

// maxRetainedChunks bounds how far a recycled arena may grow, as a
// multiple of the pool's chunk size, before Put drops it instead of
// pooling it. Keeps one oversized frame from pinning memory for the
// rest of the run.
const maxRetainedChunks = 4

// Pool maintains reusable arenas to reduce per-frame allocation churn.
type Pool struct {
	pool      sync.Pool
	chunkSize int
}

// NewPool creates a pool handing out arenas with the given chunk size.
func NewPool(chunkSize int) *Pool {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return New(chunkSize)
			},
		},
		chunkSize: chunkSize,
	}
}

// Get retrieves a ready-to-use arena from the pool.
func (p *Pool) Get() *Arena {
	return p.pool.Get().(*Arena)
}

// Put resets an arena and returns it to the pool. Closed arenas are
// ignored; overgrown ones are closed instead of kept.
func (p *Pool) Put(a *Arena) {
	if a == nil || a.chunks == nil {
		return
	}
	if a.Capacity() > maxRetainedChunks*p.chunkSize {
		a.Close()
		return
	}
	a.Reset()
	p.pool.Put(a)
}
