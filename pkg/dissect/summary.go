package dissect

import (
	"encoding/binary"
	"net"

	"pktscope-go/internal/fn"
	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/strbuf"
)

// MaxInfoLen caps the rendered info column. Whatever a frame's
// contents suggest, the column buffer never grows past this; the
// excess is dropped.
const MaxInfoLen = 256

// initialInfoLen seeds the column buffer; most summaries fit in it
// without a single regrowth.
const initialInfoLen = 64

// Summary is the one-line description of a single frame. Src and Dst
// are the innermost addresses reached (nil for frames without any);
// they alias the frame's storage.
type Summary struct {
	Protocol string `json:"protocol"`
	Src      net.IP `json:"src,omitempty"`
	Dst      net.IP `json:"dst,omitempty"`
	Info     string `json:"info"`
	Length   int    `json:"length"`
}

// framePool hands out one arena scope per summarized frame.
var framePool = arena.NewPool(arena.DefaultChunkSize)

// Summarize walks frame's header chain and renders its info column
// into a ceiling-bounded buffer drawn from alloc. Frames shorter than
// the Ethernet envelope return ErrFrameTooShort; deeper truncation
// degrades to a best-effort line instead.
func Summarize(alloc arena.Allocator, frame []byte) (Summary, error) {
	h, err := parseLink(frame)
	if err != nil {
		return Summary{}, err
	}

	b := strbuf.NewSized(alloc, initialInfoLen, MaxInfoLen)
	proto, ep := writeInfo(b, h)

	info := b.Finalize()
	return Summary{
		Protocol: proto,
		Src:      ep.src,
		Dst:      ep.dst,
		Info:     string(info[:len(info)-1]),
		Length:   len(frame),
	}, nil
}

// SummarizePooled is Summarize inside a pooled per-frame scope. The
// returned Summary takes nothing from the scope: Info is a plain
// string and Src/Dst alias the caller's frame.
func SummarizePooled(frame []byte) (Summary, error) {
	a := framePool.Get()
	defer framePool.Put(a)
	return Summarize(a, frame)
}

// PoolStats reports the utilization of a frame-summary arena, for the
// debug API.
func PoolStats() arena.Stats {
	a := framePool.Get()
	defer framePool.Put(a)
	return a.Stats()
}

// endpoints carries the innermost source and destination addresses a
// summary reached, when the frame has any.
type endpoints struct {
	src, dst net.IP
}

// writeInfo renders the info column and returns the protocol tag and
// endpoint addresses of the innermost layer reached.
func writeInfo(b *strbuf.Buf, h linkHeader) (string, endpoints) {
	if h.vlanID != 0 {
		b.Appendf("vlan %d ", h.vlanID)
	}
	switch h.ethertype {
	case EthertypeARP:
		return writeARP(b, h.payload)
	case EthertypeIPv4:
		return writeIPv4(b, h.payload)
	case EthertypeIPv6:
		return writeIPv6(b, h.payload)
	}
	b.Appendf("%s %s -> %s, %d bytes", h.ethertype, h.src, h.dst, len(h.payload))
	return h.ethertype.String(), endpoints{}
}

func writeARP(b *strbuf.Buf, p []byte) (string, endpoints) {
	if len(p) < minARPSize {
		b.Append("ARP (truncated)")
		return "ARP", endpoints{}
	}
	op := binary.BigEndian.Uint16(p[6:8])
	spa := net.IP(p[14:18])
	tpa := net.IP(p[24:28])
	switch op {
	case 1:
		b.Appendf("who-has %s tell %s", tpa, spa)
	case 2:
		b.Appendf("%s is-at %s", spa, net.HardwareAddr(p[8:14]))
	default:
		b.Appendf("op %d %s -> %s", op, spa, tpa)
	}
	return "ARP", endpoints{src: spa, dst: tpa}
}

func writeIPv4(b *strbuf.Buf, p []byte) (string, endpoints) {
	if len(p) < minIPv4Size || p[0]>>4 != 4 {
		b.Append("IPv4 (malformed)")
		return "IPv4", endpoints{}
	}
	ihl := int(p[0]&0x0F) * 4
	if ihl < minIPv4Size || len(p) < ihl {
		b.Append("IPv4 (bad header length)")
		return "IPv4", endpoints{}
	}
	ep := endpoints{src: net.IP(p[12:16]), dst: net.IP(p[16:20])}
	return writeTransport(b, IPProtocol(p[9]), ep.src, ep.dst, p[ihl:]), ep
}

// writeIPv6 reads the fixed header only; extension headers are not
// walked, so their summaries fall back to the next-header number.
func writeIPv6(b *strbuf.Buf, p []byte) (string, endpoints) {
	if len(p) < minIPv6Size || p[0]>>4 != 6 {
		b.Append("IPv6 (malformed)")
		return "IPv6", endpoints{}
	}
	ep := endpoints{src: net.IP(p[8:24]), dst: net.IP(p[24:40])}
	return writeTransport(b, IPProtocol(p[6]), ep.src, ep.dst, p[40:]), ep
}

// writeTransport renders the innermost layer. Unknown or truncated
// transports fall back to an address pair with the protocol name.
func writeTransport(b *strbuf.Buf, proto IPProtocol, src, dst net.IP, p []byte) string {
	switch proto {
	case ProtoUDP:
		if len(p) < minUDPSize {
			break
		}
		b.Appendf("UDP %s:%d -> %s:%d len=%d",
			src, binary.BigEndian.Uint16(p[0:2]),
			dst, binary.BigEndian.Uint16(p[2:4]),
			binary.BigEndian.Uint16(p[4:6]))
		return "UDP"
	case ProtoTCP:
		if len(p) < minTCPSize {
			break
		}
		flags := tcpFlags(p[13])
		b.Appendf("TCP %s:%d -> %s:%d%s seq=%d",
			src, binary.BigEndian.Uint16(p[0:2]),
			dst, binary.BigEndian.Uint16(p[2:4]),
			fn.T(flags != "", " ["+flags+"]", ""),
			binary.BigEndian.Uint32(p[4:8]))
		return "TCP"
	case ProtoICMP, ProtoICMPv6:
		if len(p) < minICMPSize {
			break
		}
		b.Appendf("%s %s -> %s type=%d code=%d", proto, src, dst, p[0], p[1])
		return proto.String()
	}
	b.Appendf("%s %s -> %s, %d bytes", proto, src, dst, len(p))
	return proto.String()
}

// tcpFlags renders the set flag names, comma separated.
func tcpFlags(f byte) string {
	flags := []struct {
		bit  byte
		name string
	}{
		{0x02, "SYN"},
		{0x10, "ACK"},
		{0x01, "FIN"},
		{0x04, "RST"},
		{0x08, "PSH"},
		{0x20, "URG"},
	}
	out := ""
	for _, fl := range flags {
		if f&fl.bit != 0 {
			out += fn.T(out != "", ",", "") + fl.name
		}
	}
	return out
}
