package main

import (
	"testing"

	"pktscope-go/pkg/record"
)

func TestAggregateFlows(t *testing.T) {
	recs := []record.Record{
		{Src: "10.0.0.1", Dst: "10.0.0.2", Length: 100, Protocol: "TCP"},
		{Src: "10.0.0.1", Dst: "10.0.0.2", Length: 60, Protocol: "TCP"},
		{Src: "10.0.0.2", Dst: "10.0.0.1", Length: 40, Protocol: "TCP"},
		{Protocol: "LLDP", Length: 80}, // no endpoints, skipped
		{Src: "fe80::1", Dst: "fe80::2", Length: 86, Protocol: "ICMPv6"},
	}

	flows := aggregateFlows(recs)
	if len(flows) != 3 {
		t.Fatalf("Expected 3 flows, got %d", len(flows))
	}

	want := []flow{
		{src: "10.0.0.1", dst: "10.0.0.2", frames: 2, bytes: 160},
		{src: "10.0.0.2", dst: "10.0.0.1", frames: 1, bytes: 40},
		{src: "fe80::1", dst: "fe80::2", frames: 1, bytes: 86},
	}
	for i, w := range want {
		if flows[i] != w {
			t.Errorf("flow %d: Expected %+v, got %+v", i, w, flows[i])
		}
	}
}

func TestAggregateFlowsEmpty(t *testing.T) {
	if flows := aggregateFlows(nil); len(flows) != 0 {
		t.Errorf("Expected no flows for an empty journal, got %d", len(flows))
	}
	recs := []record.Record{{Protocol: "LLDP", Length: 80}}
	if flows := aggregateFlows(recs); len(flows) != 0 {
		t.Errorf("Expected no flows for endpoint-less records, got %d", len(flows))
	}
}
