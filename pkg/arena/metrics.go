package arena

// SizeInUse returns the number of bytes currently allocated, including
// internal fragmentation due to alignment.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += c.off
	}
	return sum
}

// Capacity returns the total size in bytes of all retained chunks.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// NumChunks returns the number of chunks backing the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// ChunkSize returns the configured chunk size.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Utilization returns the ratio of bytes in use to total capacity,
// 0.0 to 1.0. A closed arena reports 0.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// Stats is a point-in-time utilization snapshot, shaped for the
// debug API.
type Stats struct {
	SizeInUse   int     `json:"size_in_use"`
	Capacity    int     `json:"capacity"`
	NumChunks   int     `json:"num_chunks"`
	ChunkSize   int     `json:"chunk_size"`
	Utilization float64 `json:"utilization"`
}

// Stats returns a snapshot of the arena's utilization counters.
func (a *Arena) Stats() Stats {
	return Stats{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Utilization: a.Utilization(),
	}
}
