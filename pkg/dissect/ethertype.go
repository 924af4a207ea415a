package dissect

import "fmt"

// Ethertype represents the Ethernet frame type field
type Ethertype struct {
	Hi, Lo byte
}

// Value returns the Ethertype as a uint16
func (e Ethertype) Value() uint16 {
	return uint16(e.Hi)<<8 | uint16(e.Lo)
}

// String returns the conventional short name, or the hex value for
// types this package does not walk into.
func (e Ethertype) String() string {
	switch e {
	case EthertypeIPv4:
		return "IPv4"
	case EthertypeIPv6:
		return "IPv6"
	case EthertypeARP:
		return "ARP"
	case EthertypeLLDP:
		return "LLDP"
	}
	return fmt.Sprintf("0x%04x", e.Value())
}

// Common Ethertypes
var (
	EthertypeIPv4 = Ethertype{0x08, 0x00}
	EthertypeARP  = Ethertype{0x08, 0x06}
	EthertypeIPv6 = Ethertype{0x86, 0xDD}
	EthertypeLLDP = Ethertype{0x88, 0xCC}
)

// IPProtocol is the IPv4 protocol / IPv6 next-header field.
type IPProtocol byte

const (
	ProtoICMP   IPProtocol = 0x01
	ProtoTCP    IPProtocol = 0x06
	ProtoUDP    IPProtocol = 0x11
	ProtoICMPv6 IPProtocol = 0x3A
)

// String returns the conventional protocol name, or "proto-N" for
// numbers this package does not dissect further.
func (p IPProtocol) String() string {
	switch p {
	case ProtoICMP:
		return "ICMP"
	case ProtoTCP:
		return "TCP"
	case ProtoUDP:
		return "UDP"
	case ProtoICMPv6:
		return "ICMPv6"
	}
	return fmt.Sprintf("proto-%d", byte(p))
}
