package strbuf

import "fmt"

// sprintf is the bounded formatted-write primitive behind Appendf.
// Swappable so tests can exercise the encoding-failure path, which
// fmt cannot produce organically.
var sprintf = sprintfn

// sprintfn renders format into dst, writing at most len(dst)-1 bytes
// followed by a terminator inside dst, and returns the byte count the
// complete rendering would need. dst must not be empty. An error means
// the arguments could not be encoded; dst contents are then
// unspecified and the caller restores its own terminator.
func sprintfn(dst []byte, format string, args ...any) (int, error) {
	w := boundWriter{dst: dst}
	if _, err := fmt.Fprintf(&w, format, args...); err != nil {
		return -1, err
	}
	dst[min(w.n, len(dst)-1)] = 0
	return w.n, nil
}

// boundWriter copies what fits into dst[:len(dst)-1] while counting
// the size of the complete rendering.
type boundWriter struct {
	dst []byte
	n   int // total bytes rendered, fitting or not
}

func (w *boundWriter) Write(p []byte) (int, error) {
	if w.n < len(w.dst)-1 {
		copy(w.dst[w.n:len(w.dst)-1], p)
	}
	w.n += len(p)
	return len(p), nil
}
