package config

import "testing"

func TestLoadFromMap(t *testing.T) {
	input := map[string]any{
		"persistence": map[string]any{
			"dsn": "file:test.db",
		},
		"dashboard": map[string]any{
			"currency":        "EUR",
			"forecast_months": 3,
		},
	}

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Persistence.DSN != "file:test.db" {
		t.Fatalf("expected dsn file:test.db, got %s", cfg.Persistence.DSN)
	}
	if cfg.Dashboard.Currency != "EUR" {
		t.Fatalf("expected currency EUR, got %s", cfg.Dashboard.Currency)
	}
	if cfg.Dashboard.ForecastMonths != 3 {
		t.Fatalf("expected 3 forecast months, got %d", cfg.Dashboard.ForecastMonths)
	}
}

func TestLoadFromStruct(t *testing.T) {
	input := Config{
		Persistence: PersistenceConfig{DSN: "file:other.db"},
		Dashboard:   DashboardConfig{Currency: "GBP"},
	}

	cfg, err := Load(input)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Persistence.DSN != "file:other.db" {
		t.Fatalf("expected dsn preserved, got %s", cfg.Persistence.DSN)
	}
	// Unset knobs pick up defaults.
	if cfg.Keys.MaxSessions != Defaults().Keys.MaxSessions {
		t.Fatalf("expected default max sessions, got %d", cfg.Keys.MaxSessions)
	}
}

func TestValidateRejectsAlertsWithoutSender(t *testing.T) {
	cfg := Defaults()
	cfg.Alerts.Enabled = true
	cfg.Alerts.From = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for enabled alerts without sender")
	}
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
