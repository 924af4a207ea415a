package arena

import (
	"testing"
)

func TestPoolGetPut(t *testing.T) {
	p := NewPool(1024)

	a := p.Get()
	if a == nil {
		t.Fatal("Get returned nil arena")
	}
	b := a.Alloc(100)
	if len(b) != 100 {
		t.Fatalf("Alloc from pooled arena length = %d, want 100", len(b))
	}

	p.Put(a)

	a2 := p.Get()
	if a2.SizeInUse() != 0 {
		t.Errorf("pooled arena SizeInUse = %d, want 0 (not reset on Put)", a2.SizeInUse())
	}
}

func TestPoolDropsClosedArena(t *testing.T) {
	p := NewPool(1024)
	a := p.Get()
	a.Close()

	// Must not panic and must not recycle a dead arena.
	p.Put(a)
	p.Put(nil)
}

func TestPoolDropsOvergrownArena(t *testing.T) {
	p := NewPool(64)
	a := p.Get()
	a.Alloc(64 * maxRetainedChunks * 2)

	p.Put(a)
	if a.chunks != nil {
		t.Error("Expected overgrown arena to be closed on Put")
	}
}

func TestPoolDefaultChunkSize(t *testing.T) {
	p := NewPool(0)
	a := p.Get()
	if a.ChunkSize() != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", a.ChunkSize(), DefaultChunkSize)
	}
}
