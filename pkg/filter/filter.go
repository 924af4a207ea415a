// Package filter decides which frames continue through the summarize
// pipeline, based on a configurable ordered rule set.
package filter

import (
	"net"
	"strings"
	"sync"
)

// Rule defines a single filtering rule. Nil addresses and an empty
// protocol tag match anything; set fields must all match.
type Rule struct {
	// If Src is non-nil, only frames from this address match.
	Src net.IP
	// If Dst is non-nil, only frames to this address match.
	Dst net.IP
	// Protocol tag to match, e.g. "UDP"; compared case-insensitively.
	Protocol string
	// Allow indicates whether matching frames pass (true) or are
	// dropped (false).
	Allow bool
}

// Filter holds an ordered set of filtering rules.
type Filter struct {
	mu    sync.RWMutex
	rules []Rule
}

// New creates an empty Filter, which passes everything.
func New() *Filter {
	return &Filter{rules: make([]Rule, 0)}
}

// Add appends a rule. Rules are evaluated in insertion order.
func (f *Filter) Add(rule Rule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule)
}

// Clear removes all rules.
func (f *Filter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = f.rules[:0]
}

// Allow inspects a frame's endpoint addresses and protocol tag and
// reports whether it should pass. The first matching rule decides; if
// no rule matches, the frame passes by default. A rule constrained on
// an address never matches frames that carry none (src or dst nil).
func (f *Filter) Allow(src, dst net.IP, proto string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, rule := range f.rules {
		if rule.Src != nil && !rule.Src.Equal(src) {
			continue
		}
		if rule.Dst != nil && !rule.Dst.Equal(dst) {
			continue
		}
		if rule.Protocol != "" && !strings.EqualFold(rule.Protocol, proto) {
			continue
		}
		return rule.Allow
	}

	// Default action: let the frame through.
	return true
}
