package filter

import (
	"net"
	"testing"
)

func TestDefaultAllow(t *testing.T) {
	f := New()
	if !f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"), "UDP") {
		t.Error("Expected empty filter to pass frames")
	}
	if !f.Allow(nil, nil, "") {
		t.Error("Expected empty filter to pass addressless frames")
	}
}

func TestFirstMatchWins(t *testing.T) {
	f := New()
	f.Add(Rule{Src: net.ParseIP("10.0.0.1"), Allow: true})
	f.Add(Rule{Allow: false}) // catch-all drop

	if !f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.9"), "TCP") {
		t.Error("Expected frames from 10.0.0.1 to pass")
	}
	if f.Allow(net.ParseIP("10.0.0.2"), net.ParseIP("10.0.0.9"), "TCP") {
		t.Error("Expected frames from 10.0.0.2 to be dropped by the catch-all")
	}
}

func TestProtocolMatchIsCaseInsensitive(t *testing.T) {
	f := New()
	f.Add(Rule{Protocol: "udp", Allow: true})
	f.Add(Rule{Allow: false})

	if !f.Allow(nil, nil, "UDP") {
		t.Error("Expected rule protocol udp to match tag UDP")
	}
	if !f.Allow(nil, nil, "udp") {
		t.Error("Expected rule protocol udp to match tag udp")
	}
	if f.Allow(nil, nil, "ICMPv6") {
		t.Error("Expected ICMPv6 to fall through to the catch-all drop")
	}
}

func TestProtocolDropRule(t *testing.T) {
	f := New()
	f.Add(Rule{Protocol: "TCP", Allow: false})

	if f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"), "TCP") {
		t.Error("Expected TCP frames to be dropped")
	}
	if !f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"), "UDP") {
		t.Error("Expected non-TCP frames to pass by default")
	}
}

func TestAddressRuleSkipsAddresslessFrames(t *testing.T) {
	f := New()
	f.Add(Rule{Src: net.ParseIP("10.0.0.1"), Allow: true})
	f.Add(Rule{Allow: false})

	if f.Allow(nil, nil, "LLDP") {
		t.Error("Expected addressless frame to miss the address rule and hit the catch-all")
	}
}

func TestCombinedConstraints(t *testing.T) {
	f := New()
	f.Add(Rule{
		Src:      net.ParseIP("10.0.0.1"),
		Dst:      net.ParseIP("10.0.0.2"),
		Protocol: "TCP",
		Allow:    true,
	})
	f.Add(Rule{Allow: false})

	if !f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"), "TCP") {
		t.Error("Expected fully matching frame to pass")
	}
	if f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.3"), "TCP") {
		t.Error("Expected frame with wrong destination to be dropped")
	}
	if f.Allow(net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"), "UDP") {
		t.Error("Expected frame with wrong protocol to be dropped")
	}
}

func TestClear(t *testing.T) {
	f := New()
	f.Add(Rule{Allow: false})
	if f.Allow(nil, nil, "UDP") {
		t.Fatal("Expected catch-all drop before Clear")
	}
	f.Clear()
	if !f.Allow(nil, nil, "UDP") {
		t.Error("Expected default allow after Clear")
	}
}
