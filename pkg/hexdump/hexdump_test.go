package hexdump

import (
	"strings"
	"testing"

	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/strbuf"
)

func TestDump(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}

	expected := "00000000  00 01 02 03 04 05 06 07  08 09 0a 0b 0c 0d 0e 0f  |................|\n" +
		"00000010  10 11 12 13 " + strings.Repeat(" ", 37) + " |....|\n"

	if got := Dump(data); got != expected {
		t.Errorf("Expected:\n%q\ngot:\n%q", expected, got)
	}
}

func TestDumpPrintable(t *testing.T) {
	got := Dump([]byte("ABC"))
	if !strings.HasSuffix(got, "|ABC|\n") {
		t.Errorf("Expected printable ASCII column, got %q", got)
	}
	if !strings.HasPrefix(got, "00000000  41 42 43 ") {
		t.Errorf("Expected hex column, got %q", got)
	}
}

func TestDumpEmpty(t *testing.T) {
	if got := Dump(nil); got != "" {
		t.Errorf("Expected empty dump, got %q", got)
	}
}

func TestAppendDisplayAddr(t *testing.T) {
	b := strbuf.New(arena.Heap{}, "")
	Append(b, 0x200, []byte{0xAA})
	if !strings.HasPrefix(b.String(), "00000200  aa ") {
		t.Errorf("Expected offset column at 0x200, got %q", b.String())
	}
}

func TestAppendAvoidsRegrowth(t *testing.T) {
	data := make([]byte, 64)
	b := strbuf.NewSized(arena.Heap{}, 4*lineWidth, 0)
	Append(b, 0, data)
	if b.Cap() != 4*lineWidth {
		t.Errorf("Expected presized capacity %d to hold 4 lines, got %d", 4*lineWidth, b.Cap())
	}
	if strings.Count(b.String(), "\n") != 4 {
		t.Errorf("Expected 4 lines, got %d", strings.Count(b.String(), "\n"))
	}
}

func TestAppendBoundedTruncatesSilently(t *testing.T) {
	data := make([]byte, 64)
	b := strbuf.NewSized(arena.Heap{}, 16, 100)
	Append(b, 0, data)

	if b.Len() != 99 {
		t.Errorf("Expected dump truncated at the 99-byte ceiling room, got %d", b.Len())
	}
	if b.Cap() != 100 {
		t.Errorf("Expected capacity clamped to 100, got %d", b.Cap())
	}
}
