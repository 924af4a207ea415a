// Package hexdump renders the classic offset/hex/ASCII dump used when
// echoing raw frames.
package hexdump

import (
	"unicode"

	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/strbuf"
)

const (
	bytesPerLine = 16
	lineWidth    = 80 // one full rendered line plus room for the terminator
)

// Append writes a formatted hex dump of data into b. displayAddr is
// the starting address shown in the leftmost column.
func Append(b *strbuf.Buf, displayAddr uint32, data []byte) {
	for i := 0; i < len(data); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line := data[i:end]

		b.Appendf("%08x  ", displayAddr+uint32(i))

		for j := 0; j < bytesPerLine; j++ {
			if j < len(line) {
				b.Appendf("%02x ", line[j])
			} else {
				// Pad if not enough bytes on the last line.
				b.Append("   ")
			}
			// Extra space after 8 bytes.
			if j == 7 {
				b.AppendByte(' ')
			}
		}

		b.Append(" |")
		for _, c := range line {
			if unicode.IsPrint(rune(c)) {
				b.AppendByte(c)
			} else {
				b.AppendByte('.')
			}
		}
		b.Append("|\n")
	}
}

// Dump returns the hex dump of data as a string, presized so one-shot
// dumps avoid regrowth.
func Dump(data []byte) string {
	lines := (len(data) + bytesPerLine - 1) / bytesPerLine
	b := strbuf.NewSized(arena.Default, lines*lineWidth, 0)
	Append(b, 0, data)
	return b.String()
}
