package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"pktscope-go/pkg/arena"
	"pktscope-go/pkg/record"
)

func fixedStats() arena.Stats {
	return arena.Stats{
		SizeInUse:   128,
		Capacity:    1024,
		NumChunks:   1,
		ChunkSize:   1024,
		Utilization: 0.125,
	}
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Api.ServeHTTP(rec, req)
	return rec
}

func TestGetStats(t *testing.T) {
	s := New(fixedStats, nil)

	rec := get(t, s, "/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got arena.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if got != fixedStats() {
		t.Errorf("Expected %+v, got %+v", fixedStats(), got)
	}
}

func TestGetRecords(t *testing.T) {
	store, err := record.Open(filepath.Join(t.TempDir(), "capture.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	for _, info := range []string{"first", "second"} {
		if err := store.Append(record.Record{Protocol: "UDP", Info: info, Length: 60}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	s := New(fixedStats, store)
	rec := get(t, s, "/records?n=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got []record.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[0].Info != "first" || got[1].Info != "second" {
		t.Errorf("Expected chronological order [first second], got [%s %s]", got[0].Info, got[1].Info)
	}
}

func TestGetRecordsEmptyJournal(t *testing.T) {
	store, err := record.Open(filepath.Join(t.TempDir(), "capture.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	s := New(fixedStats, store)
	rec := get(t, s, "/records")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty JSON array, got %q", body)
	}
}

func TestGetRecordsBadCount(t *testing.T) {
	store, err := record.Open(filepath.Join(t.TempDir(), "capture.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	s := New(fixedStats, store)
	for _, target := range []string{"/records?n=abc", "/records?n=-1"} {
		rec := get(t, s, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: Expected status %d, got %d", target, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestGetRecordsWithoutStore(t *testing.T) {
	s := New(fixedStats, nil)
	rec := get(t, s, "/records")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}
