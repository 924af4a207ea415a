// Package arena provides the scope-tied memory services used by the
// packet processing paths: a small allocator contract, a GC-backed
// default, and a chunked bump arena with O(1) bulk reclaim.
//
// Typical usage is one arena per processed frame: allocate freely
// while building summaries, then Reset when the frame is done.
package arena

// DefaultChunkSize is the chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk is a single backing slab within an arena.
type chunk struct {
	buf []byte
	off int // allocation offset within buf
}

// Arena is a chunked bump allocator. Regions are handed out front to
// back; Reset reclaims everything at once and invalidates every region
// handed out so far. Not goroutine-safe: an arena belongs to one
// worker at a time.
type Arena struct {
	chunks    []chunk
	chunkSize int
	cur       int    // index of the chunk allocations come from
	gen       uint64 // bumped by Reset and Close

	// Most recent region, for bump rollback and in-place Realloc.
	lastChunk int
	lastOff   int
	lastSize  int
}

// New creates an Arena with the given chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func New(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize, lastChunk: -1}
	a.grow(chunkSize)
	return a
}

// Alloc returns a region of length exactly n carved from the arena.
// Contents are unspecified until written. Returns nil if n <= 0.
func (a *Arena) Alloc(n int) []byte {
	a.guard()
	if n <= 0 {
		return nil
	}
	c := &a.chunks[a.cur]
	off := alignUp(c.off)
	if off+n > len(c.buf) {
		a.advance(n)
		c = &a.chunks[a.cur]
		off = alignUp(c.off)
	}
	c.off = off + n
	a.lastChunk, a.lastOff, a.lastSize = a.cur, off, n
	return c.buf[off:c.off:c.off]
}

// Realloc resizes b to length n, preserving contents up to the shorter
// of the two lengths. The region may move; b must not be used
// afterwards. The most recent allocation is resized in place whenever
// its chunk has room.
func (a *Arena) Realloc(b []byte, n int) []byte {
	a.guard()
	if len(b) == 0 {
		return a.Alloc(n)
	}
	if n <= 0 {
		a.Free(b)
		return nil
	}
	if a.isLast(b) {
		c := &a.chunks[a.lastChunk]
		if a.lastOff+n <= len(c.buf) {
			c.off = a.lastOff + n
			a.lastSize = n
			return c.buf[a.lastOff:c.off:c.off]
		}
		// No room to extend in place: move, then hand the old
		// region's bytes back to the bump pointer.
		oldChunk, oldOff := a.lastChunk, a.lastOff
		out := a.Alloc(n)
		copy(out, b)
		a.chunks[oldChunk].off = oldOff
		return out
	}
	if n <= len(b) {
		return b[:n:n]
	}
	out := a.Alloc(n)
	copy(out, b)
	return out
}

// Free returns b to the arena when it was the most recent allocation
// (bump rollback). Anything older is left for Reset to reclaim.
func (a *Arena) Free(b []byte) {
	a.guard()
	if len(b) == 0 || !a.isLast(b) {
		return
	}
	a.chunks[a.lastChunk].off = a.lastOff
	a.lastChunk, a.lastOff, a.lastSize = -1, 0, 0
}

// Reset rewinds every chunk to empty but keeps them for reuse,
// giving O(1) cleanup between frames. All regions handed out so far
// become invalid.
func (a *Arena) Reset() {
	a.guard()
	for i := range a.chunks {
		a.chunks[i].off = 0
	}
	a.cur = 0
	a.lastChunk = -1
	a.gen++
}

// Close ends the scope: chunks are dropped and any later operation
// panics. Closing an already closed arena is a no-op.
func (a *Arena) Close() {
	if a.chunks == nil {
		return
	}
	a.chunks = nil
	a.cur = 0
	a.lastChunk = -1
	a.gen++
}

// Generation identifies the arena's current lifecycle epoch. Reset and
// Close both start a new one. Objects built from the arena can capture
// the value at construction and compare on later use to catch
// accesses that outlive their scope.
func (a *Arena) Generation() uint64 {
	return a.gen
}

// isLast reports whether b is exactly the most recent region.
func (a *Arena) isLast(b []byte) bool {
	if a.lastChunk < 0 || len(b) != a.lastSize {
		return false
	}
	return &b[0] == &a.chunks[a.lastChunk].buf[a.lastOff]
}

// advance moves to the next retained chunk that can hold n bytes,
// appending a fresh one when none fits.
func (a *Arena) advance(n int) {
	for a.cur+1 < len(a.chunks) {
		a.cur++
		if c := &a.chunks[a.cur]; n <= len(c.buf)-alignUp(c.off) {
			return
		}
	}
	a.grow(n)
}

// grow appends a new chunk of at least min bytes.
func (a *Arena) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	a.chunks = append(a.chunks, chunk{buf: make([]byte, size)})
	a.cur = len(a.chunks) - 1
}

func (a *Arena) guard() {
	if a.chunks == nil {
		panic("arena: use after Close()")
	}
}

// alignUp rounds off up to pointer-size alignment.
func alignUp(off int) int {
	const align = 8
	return (off + align - 1) &^ (align - 1)
}
