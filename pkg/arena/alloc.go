package arena

// Allocator is the allocation contract consumed by the building blocks
// in this repo (strbuf in particular). Implementations hand out byte
// regions whose contents are unspecified until written.
//
// Alloc returns a region of length exactly n, or nil when n <= 0.
// Realloc resizes b, preserving contents up to the shorter length; the
// region may move and the old slice must not be used afterwards.
// Free releases b where the implementation can; otherwise the region
// is simply abandoned to the owning scope.
type Allocator interface {
	Alloc(n int) []byte
	Realloc(b []byte, n int) []byte
	Free(b []byte)
}

// Heap delegates to the Go runtime and keeps Free as a no-op.
type Heap struct{}

func (Heap) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	return make([]byte, n)
}

func (Heap) Realloc(b []byte, n int) []byte {
	if n <= 0 {
		return nil
	}
	if n == len(b) {
		return b
	}
	nb := make([]byte, n)
	copy(nb, b)
	return nb
}

func (Heap) Free([]byte) {}

// Default is the allocator used when callers do not bring a scope.
var Default Allocator = Heap{}
