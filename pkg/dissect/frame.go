// Package dissect walks the common header chain of an Ethernet frame
// (VLAN tags, ARP, IPv4/IPv6, TCP/UDP/ICMP) and builds the one-line
// summary shown for each captured packet. Summaries are assembled in
// a ceiling-bounded buffer, so a malformed frame can never balloon
// the info column.
package dissect

import (
	"errors"
	"net"
)

// Common errors returned by functions in this package
var (
	ErrFrameTooShort = errors.New("frame too short")
)

// Tagging represents the VLAN tagging of a frame. The value is the
// number of bytes taken by the tags.
type Tagging int

const (
	NotTagged    Tagging = 0
	Tagged       Tagging = 4 // 802.1Q single tag
	DoubleTagged Tagging = 8 // 802.1ad (Q-in-Q) double tag
)

// Minimum valid lengths (pre-computed constants)
const (
	MinFrameSize = 14 // Ethernet header without FCS
	minIPv4Size  = 20
	minIPv6Size  = 40
	minARPSize   = 28
	minUDPSize   = 8
	minTCPSize   = 20
	minICMPSize  = 4
)

// VLAN tag protocol identifiers (as uint16 for faster comparison)
const (
	dot1QTagType  uint16 = 0x8100 // IEEE 802.1Q VLAN tag
	dot1AdTagType uint16 = 0x88a8 // IEEE 802.1ad Q-in-Q tag
)

// linkHeader is the decoded Ethernet envelope.
type linkHeader struct {
	dst, src  net.HardwareAddr
	tagging   Tagging
	vlanID    uint16 // outer VLAN ID, 0 when untagged
	ethertype Ethertype
	payload   []byte
}

// parseLink validates the Ethernet envelope and skips over VLAN tags.
func parseLink(frame []byte) (linkHeader, error) {
	var h linkHeader
	if len(frame) < MinFrameSize {
		return h, ErrFrameTooShort
	}
	h.dst = net.HardwareAddr(frame[0:6])
	h.src = net.HardwareAddr(frame[6:12])

	typeField := uint16(frame[12])<<8 | uint16(frame[13])
	switch {
	case typeField == dot1QTagType && len(frame) >= 18 &&
		uint16(frame[16])<<8|uint16(frame[17]) == dot1QTagType:
		h.tagging = DoubleTagged
	case typeField == dot1AdTagType:
		h.tagging = DoubleTagged
	case typeField == dot1QTagType:
		h.tagging = Tagged
	}

	typeOff := 12 + int(h.tagging)
	if len(frame) < typeOff+2 {
		return h, ErrFrameTooShort
	}
	if h.tagging != NotTagged {
		// 12 bits: low nibble of the first tag byte plus the second.
		h.vlanID = (uint16(frame[14]&0x0F) << 8) | uint16(frame[15])
	}
	h.ethertype = Ethertype{frame[typeOff], frame[typeOff+1]}
	h.payload = frame[typeOff+2:]
	return h, nil
}
