package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/transroute/internal"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func request(id, text string) internal.TranslationRequest {
	return internal.TranslationRequest{
		ID:         id,
		SourceText: text,
		SourceLang: "es",
		TargetLang: "en",
		Timestamp:  time.Now().UTC(),
	}
}

func TestStore_SaveAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveRequest(ctx, request("req-1", "hola")); err != nil {
		t.Fatalf("failed to save request: %v", err)
	}
	if err := s.SaveOutcome(ctx, "req-1", "mymemory", "hello", 0.92, 0.0001, 42, false, ""); err != nil {
		t.Fatalf("failed to save outcome: %v", err)
	}

	entries, err := s.ListHistory(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.RequestID != "req-1" || e.SourceText != "hola" || e.FinalText != "hello" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Provider != "mymemory" || e.Confidence != 0.92 || e.FromCache {
		t.Errorf("unexpected outcome fields: %+v", e)
	}
}

func TestStore_RequestWithoutOutcome(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveRequest(ctx, request("req-1", "hola")); err != nil {
		t.Fatalf("failed to save request: %v", err)
	}

	entries, err := s.ListHistory(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Provider != "" || entries[0].FinalText != "" {
		t.Errorf("expected empty outcome fields, got %+v", entries[0])
	}
}

func TestStore_NormalizesSourceText(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveRequest(ctx, request("req-1", "  hola  ")); err != nil {
		t.Fatalf("failed to save request: %v", err)
	}

	entries, err := s.ListHistory(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list history: %v", err)
	}
	if entries[0].SourceText != "hola" {
		t.Errorf("expected trimmed text, got %q", entries[0].SourceText)
	}
}

func TestStore_DuplicateRequestID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.SaveRequest(ctx, request("req-1", "hola")); err != nil {
		t.Fatalf("failed to save request: %v", err)
	}
	if err := s.SaveRequest(ctx, request("req-1", "hola")); err == nil {
		t.Error("expected primary key violation for duplicate request id")
	}
}

func TestStore_Stats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.SaveRequest(ctx, request("req-1", "uno"))
	s.SaveOutcome(ctx, "req-1", "mymemory", "one", 0.9, 0, 10, false, "")
	s.SaveRequest(ctx, request("req-2", "dos"))
	s.SaveOutcome(ctx, "req-2", "systran", "two", 0.8, 0.0002, 20, true, "")
	s.SaveRequest(ctx, request("req-3", "tres"))
	s.SaveOutcome(ctx, "req-3", "google", "", 0, 0, 5, false, "connection refused")

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to compute stats: %v", err)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("expected 3 requests, got %d", stats.TotalRequests)
	}
	if stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("expected 2/1 succeeded/failed, got %d/%d", stats.Succeeded, stats.Failed)
	}
	if stats.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", stats.CacheHits)
	}
	want := (0.9 + 0.8) / 2
	if diff := stats.AvgConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected avg confidence %.3f, got %.3f", want, stats.AvgConfidence)
	}
}

func TestStore_ClearHistory(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	s.SaveRequest(ctx, request("req-1", "hola"))
	s.SaveOutcome(ctx, "req-1", "mymemory", "hello", 0.9, 0, 10, false, "")

	dropped, err := s.ClearHistory(ctx)
	if err != nil {
		t.Fatalf("failed to clear history: %v", err)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped request, got %d", dropped)
	}

	entries, err := s.ListHistory(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list history: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestStore_ListLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"req-1", "req-2", "req-3"} {
		req := request(id, id)
		req.Timestamp = base.Add(time.Duration(i) * time.Second)
		if err := s.SaveRequest(ctx, req); err != nil {
			t.Fatalf("failed to save %s: %v", id, err)
		}
	}

	entries, err := s.ListHistory(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RequestID != "req-3" {
		t.Errorf("expected newest first, got %q", entries[0].RequestID)
	}
}
