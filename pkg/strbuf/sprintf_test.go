package strbuf

import (
	"testing"
)

func TestSprintfn(t *testing.T) {
	tests := []struct {
		name     string
		dstSize  int
		format   string
		args     []any
		expected string // bytes before the in-bounds terminator
		want     int    // full rendering size
	}{
		{"fits with room", 16, "%s", []any{"hello"}, "hello", 5},
		{"exact fit", 6, "%s", []any{"hello"}, "hello", 5},
		{"truncated", 4, "%s", []any{"hello"}, "hel", 5},
		{"only terminator fits", 1, "%s", []any{"hello"}, "", 5},
		{"formatted", 8, "%d-%d", []any{12, 34}, "12-34", 5},
		{"empty output", 4, "%s", []any{""}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.dstSize)
			for i := range dst {
				dst[i] = 0xFF // make missing terminators visible
			}

			got, err := sprintfn(dst, tt.format, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected reported size %d, got %d", tt.want, got)
			}

			term := min(tt.want, tt.dstSize-1)
			if dst[term] != 0 {
				t.Errorf("Expected terminator at %d, got %#x", term, dst[term])
			}
			if string(dst[:len(tt.expected)]) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, string(dst[:len(tt.expected)]))
			}
		})
	}
}

func TestBoundWriterCountsBeyondCapacity(t *testing.T) {
	dst := make([]byte, 4)
	w := boundWriter{dst: dst}

	w.Write([]byte("ab"))
	w.Write([]byte("cdefgh"))

	if w.n != 8 {
		t.Errorf("Expected total count 8, got %d", w.n)
	}
	if string(dst[:3]) != "abc" {
		t.Errorf("Expected %q in bounds, got %q", "abc", string(dst[:3]))
	}
}
