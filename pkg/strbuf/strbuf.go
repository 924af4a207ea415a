// Package strbuf implements the growable, length-tracked text buffer
// used to build display strings from packet fields. Buffers allocate
// from an arena.Allocator and may carry a hard capacity ceiling:
// whatever does not fit under the ceiling is silently dropped, trading
// completeness for a bounded memory footprint.
//
// A buffer always keeps one NUL terminator after its logical content,
// so a finalized region can be handed to consumers expecting
// C-convention strings. Embedded NULs are permitted via AppendBytes;
// the tracked length stays authoritative either way.
package strbuf

import (
	"fmt"
	"unicode/utf8"

	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/log"
)

// defaultMinLen is the smallest capacity handed to a fresh buffer.
const defaultMinLen = 16

// generational is satisfied by scope allocators that report their
// lifecycle epoch (arena.Arena does). Buffers built from one capture
// the epoch at construction and verify it on every use, so a buffer
// that outlives its scope fails loudly instead of reading recycled
// memory.
type generational interface {
	Generation() uint64
}

// Buf is a growable byte buffer with a tracked logical length and an
// optional capacity ceiling. The zero value is not usable; construct
// with NewSized, New or NewBytes. Not safe for concurrent use.
type Buf struct {
	alloc  arena.Allocator
	data   []byte // len(data) is the capacity; data[used] is the terminator
	used   int
	maxLen int // capacity ceiling, 0 means unbounded
	gen    uint64
}

// NewSized creates a buffer with exactly allocLen bytes of capacity.
// maxLen, when positive, is a hard ceiling on how far the buffer may
// ever grow; appends beyond it are silently truncated. Requesting
// allocLen above the ceiling is a programming fault and panics.
// allocLen <= 0 substitutes the default minimum.
func NewSized(alloc arena.Allocator, allocLen, maxLen int) *Buf {
	if alloc == nil {
		panic("strbuf: nil allocator")
	}
	if maxLen < 0 {
		maxLen = 0
	}
	if maxLen != 0 && allocLen > maxLen {
		panic(fmt.Sprintf("strbuf: initial capacity %d exceeds ceiling %d", allocLen, maxLen))
	}
	if allocLen <= 0 {
		allocLen = defaultMinLen
		if maxLen != 0 && allocLen > maxLen {
			allocLen = maxLen
		}
	}
	b := &Buf{alloc: alloc, data: alloc.Alloc(allocLen), maxLen: maxLen}
	if g, ok := alloc.(generational); ok {
		b.gen = g.Generation()
	}
	b.data[0] = 0
	return b
}

// New creates an unbounded buffer seeded with s. Capacity starts at
// the smallest doubling of the default minimum that fits the seed and
// its terminator.
func New(alloc arena.Allocator, s string) *Buf {
	b := NewSized(alloc, seedCap(len(s)), 0)
	if len(s) > 0 {
		b.Append(s)
	}
	return b
}

// NewBytes is New for length-delimited seeds, which may contain NULs.
func NewBytes(alloc arena.Allocator, p []byte) *Buf {
	b := NewSized(alloc, seedCap(len(p)), 0)
	if len(p) > 0 {
		b.AppendBytes(p)
	}
	return b
}

func seedCap(n int) int {
	allocLen := defaultMinLen
	for allocLen < n+1 {
		allocLen *= 2
	}
	return allocLen
}

// room is the number of bytes appendable without growing, keeping the
// terminator slot reserved.
func (b *Buf) room() int {
	return len(b.data) - b.used - 1
}

// grow makes room for toAdd more bytes by repeatedly doubling the
// capacity, clamped to the ceiling when one is set. Under a tight
// ceiling the resulting room may still be short of toAdd; appends deal
// with that by truncating. Reallocation moves the backing region, so
// any previously returned view is invalid after growth.
func (b *Buf) grow(toAdd int) {
	// Fast path for repeated small appends.
	if b.room() >= toAdd {
		return
	}
	newAlloc := len(b.data)
	needed := b.used + toAdd
	for newAlloc < needed+1 {
		newAlloc *= 2
	}
	if b.maxLen != 0 && newAlloc > b.maxLen {
		newAlloc = b.maxLen
	}
	if newAlloc == len(b.data) {
		return
	}
	b.data = b.alloc.Realloc(b.data, newAlloc)
}

// Append appends s, truncating silently if a ceiling leaves too
// little room. Appending the empty string is a no-op.
func (b *Buf) Append(s string) {
	b.guard()
	if len(s) == 0 {
		return
	}
	b.grow(len(s))
	n := min(len(s), b.room())
	copy(b.data[b.used:], s[:n])
	b.used += n
	b.data[b.used] = 0
}

// AppendBytes appends p, which may contain NUL bytes. Zero-length p is
// a no-op. Under a ceiling the copy is clamped to what fits.
func (b *Buf) AppendBytes(p []byte) {
	b.guard()
	if len(p) == 0 {
		return
	}
	b.grow(len(p))
	n := min(len(p), b.room())
	copy(b.data[b.used:], p[:n])
	b.used += n
	b.data[b.used] = 0
}

// AppendByte appends a single byte, or nothing when a ceiling has the
// buffer at capacity.
func (b *Buf) AppendByte(c byte) {
	b.guard()
	b.grow(1)
	if b.room() >= 1 {
		b.data[b.used] = c
		b.used++
		b.data[b.used] = 0
	}
}

// AppendRune appends the UTF-8 encoding of r. The encoded sequence is
// written whole or not at all, so a ceiling can never split a
// character. Invalid runes encode as utf8.RuneError, as elsewhere in
// Go.
func (b *Buf) AppendRune(r rune) {
	b.guard()
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	b.grow(n)
	if b.room() >= n {
		copy(b.data[b.used:], tmp[:n])
		b.used += n
		b.data[b.used] = 0
	}
}

// Appendf appends fmt.Sprintf-style formatted output in two phases:
// first a probe into the existing room, which commits directly in the
// common case where the output fits; when it does not, the probe is
// discarded, the buffer grows to the reported full size (ceiling
// permitting) and the write runs once more, this time keeping
// whatever fits. An encoding failure from the primitive is logged and
// leaves the buffer untouched.
func (b *Buf) Appendf(format string, args ...any) {
	b.guard()
	want := b.tryFormat(format, args, true)
	if want <= 0 {
		return
	}
	b.grow(want)
	b.tryFormat(format, args, false)
}

// tryFormat renders format into the remaining raw room without
// growing. It returns -1 after an encoding failure (logged; buffer
// left as it was), 0 when the output fit and was committed, or the
// byte count the complete rendering needs when it did not fit. A
// truncated render is discarded when discard is true; otherwise the
// fitting prefix is kept and the buffer runs at capacity.
func (b *Buf) tryFormat(format string, args []any, discard bool) int {
	dst := b.data[b.used:]
	want, err := sprintf(dst, format, args...)
	if err != nil {
		log.Warn().Err(err).Str("format", format).Msg("formatted append failed, skipping")
		b.data[b.used] = 0
		return -1
	}
	if want < len(dst) {
		b.used += want
		return 0
	}
	if discard {
		b.data[b.used] = 0
	} else {
		b.used = len(b.data) - 1
	}
	return want
}

// Truncate cuts the logical length down to n. It never grows: n at or
// beyond the current length is a no-op, and negative n clamps to
// zero. Capacity is unchanged.
func (b *Buf) Truncate(n int) {
	b.guard()
	if n < 0 {
		n = 0
	}
	if n >= b.used {
		return
	}
	b.data[n] = 0
	b.used = n
}

// Len returns the logical length in bytes.
func (b *Buf) Len() int {
	b.guard()
	return b.used
}

// Cap returns the allocated capacity, terminator slot included.
func (b *Buf) Cap() int {
	b.guard()
	return len(b.data)
}

// Bytes returns the content without its terminator. The view is valid
// only until the next mutating call: growth may move the backing
// region.
func (b *Buf) Bytes() []byte {
	b.guard()
	return b.data[:b.used]
}

// String returns a stable copy of the content.
func (b *Buf) String() string {
	b.guard()
	return string(b.data[:b.used])
}

// Finalize shrinks the backing region to exactly Len()+1 bytes (the
// terminator is the final byte) and hands it over: the caller becomes
// its sole owner and the buffer is dead. Any use after Finalize
// panics.
func (b *Buf) Finalize() []byte {
	b.guard()
	out := b.alloc.Realloc(b.data, b.used+1)
	b.alloc, b.data, b.used, b.maxLen = nil, nil, 0, 0
	return out
}

// Destroy returns the backing region to the allocator and kills the
// buffer without handing anything back. Like Finalize, any later use
// panics.
func (b *Buf) Destroy() {
	b.guard()
	b.alloc.Free(b.data)
	b.alloc, b.data, b.used, b.maxLen = nil, nil, 0, 0
}

func (b *Buf) guard() {
	if b.data == nil {
		panic("strbuf: use after Finalize or Destroy")
	}
	if g, ok := b.alloc.(generational); ok && g.Generation() != b.gen {
		panic("strbuf: buffer outlived its arena scope")
	}
}
