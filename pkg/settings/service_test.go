package settings

import (
	"testing"

	"github.com/goliatone/go-cashflow/pkg/config"
)

func TestForUserDefaultsOnly(t *testing.T) {
	cfg := config.Defaults()
	svc := New(Dependencies{Config: &cfg})

	resolver, err := svc.ForUser("user-1", nil)
	if err != nil {
		t.Fatalf("ForUser returned error: %v", err)
	}

	currency, trace, err := resolver.ResolveString(PathCurrency)
	if err != nil {
		t.Fatalf("resolve currency: %v", err)
	}
	if currency != "USD" {
		t.Fatalf("expected default currency USD, got %s", currency)
	}
	if len(trace.Layers) != 1 {
		t.Fatalf("expected a single system layer, got %d", len(trace.Layers))
	}

	months, _, err := resolver.ResolveInt(PathForecastMonths)
	if err != nil {
		t.Fatalf("resolve forecast months: %v", err)
	}
	if months != 6 {
		t.Fatalf("expected default horizon 6, got %d", months)
	}
}

func TestForUserOverridesWin(t *testing.T) {
	cfg := config.Defaults()
	svc := New(Dependencies{Config: &cfg})

	resolver, err := svc.ForUser("user-1", map[string]any{
		"dashboard": map[string]any{
			"currency": "EUR",
		},
		"alerts": map[string]any{
			"enabled": true,
		},
	})
	if err != nil {
		t.Fatalf("ForUser returned error: %v", err)
	}

	currency, trace, err := resolver.ResolveString(PathCurrency)
	if err != nil {
		t.Fatalf("resolve currency: %v", err)
	}
	if currency != "EUR" {
		t.Fatalf("expected user override EUR, got %s", currency)
	}
	if len(trace.Layers) != 2 {
		t.Fatalf("expected two layers in trace, got %d", len(trace.Layers))
	}

	enabled, _, err := resolver.ResolveBool(PathAlertsEnabled)
	if err != nil {
		t.Fatalf("resolve alerts.enabled: %v", err)
	}
	if !enabled {
		t.Fatal("expected user override to enable alerts")
	}

	// Paths the user did not touch keep the system value.
	months, _, err := resolver.ResolveInt(PathForecastMonths)
	if err != nil {
		t.Fatalf("resolve forecast months: %v", err)
	}
	if months != 6 {
		t.Fatalf("expected system horizon 6, got %d", months)
	}
}

func TestNewResolverRequiresSnapshots(t *testing.T) {
	if _, err := NewResolver(); err != ErrNoSnapshots {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}
}
