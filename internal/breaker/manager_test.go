package breaker

import (
	"context"
	"testing"
	"time"
)

func TestManager_LazyCreate(t *testing.T) {
	m, err := NewManager(testConfig(), nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	cb1 := m.Get("google")
	cb2 := m.Get("google")
	if cb1 != cb2 {
		t.Error("expected the same breaker instance per name")
	}
	if cb1.Name() != "google" {
		t.Errorf("expected name google, got %q", cb1.Name())
	}
}

func TestManager_Override(t *testing.T) {
	m, _ := NewManager(testConfig(), nil)

	override := testConfig()
	override.FailureThreshold = 1
	if err := m.SetOverride("flaky", override); err != nil {
		t.Fatalf("failed to set override: %v", err)
	}

	cb := m.Get("flaky")
	cb.Call(context.Background(), failing)
	if cb.State() != StateOpen {
		t.Errorf("override threshold 1 should open after one failure, got %s", cb.State())
	}
}

func TestManager_OverrideValidation(t *testing.T) {
	m, _ := NewManager(testConfig(), nil)

	bad := testConfig()
	bad.SuccessThreshold = 0
	if err := m.SetOverride("svc", bad); err == nil {
		t.Error("expected error for invalid override config")
	}
}

func TestManager_StatsAndHealthy(t *testing.T) {
	m, _ := NewManager(testConfig(), nil)
	ctx := context.Background()

	m.Get("alpha")
	beta := m.Get("beta")
	for i := 0; i < 3; i++ {
		beta.Call(ctx, failing)
	}

	stats := m.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 breakers, got %d", len(stats))
	}
	if stats["beta"].State != "open" {
		t.Errorf("expected beta open, got %s", stats["beta"].State)
	}

	healthy := m.Healthy()
	if len(healthy) != 1 || healthy[0] != "alpha" {
		t.Errorf("expected only alpha healthy, got %v", healthy)
	}
}

func TestManager_ResetAll(t *testing.T) {
	m, _ := NewManager(testConfig(), nil)
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		cb := m.Get(name)
		for i := 0; i < 3; i++ {
			cb.Call(ctx, failing)
		}
	}

	m.ResetAll()
	if healthy := m.Healthy(); len(healthy) != 2 {
		t.Errorf("expected all breakers healthy after reset, got %v", healthy)
	}
}

func TestManager_InvalidDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.ExpectedTimeout = -time.Second
	if _, err := NewManager(cfg, nil); err == nil {
		t.Error("expected error for invalid defaults")
	}
}
