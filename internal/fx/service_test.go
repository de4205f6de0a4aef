package fx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cashflow/internal/storage/memory"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
)

type recordingLogger struct {
	logger.Nop
	warnings []string
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnings = append(l.warnings, msg)
}

func newTestService(t *testing.T, maxAge time.Duration, log logger.Logger) *Service {
	t.Helper()
	svc, err := New(Dependencies{
		Rates:  memory.NewFxRateRepository(),
		MaxAge: maxAge,
		Logger: log,
		Clock:  func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return svc
}

func TestRecordRateValidation(t *testing.T) {
	svc := newTestService(t, 0, nil)
	ctx := context.Background()

	if _, err := svc.RecordRate(ctx, "", "USD", 1.1, time.Time{}); !errors.Is(err, ErrMissingPair) {
		t.Fatalf("expected ErrMissingPair, got %v", err)
	}
	if _, err := svc.RecordRate(ctx, "EUR", "USD", 0, time.Time{}); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestRecordRateNormalizesCurrencies(t *testing.T) {
	svc := newTestService(t, 0, nil)
	rate, err := svc.RecordRate(context.Background(), " eur ", "usd", 1.08, time.Time{})
	if err != nil {
		t.Fatalf("RecordRate returned error: %v", err)
	}
	if rate.Pair() != "EUR/USD" {
		t.Fatalf("expected normalized pair EUR/USD, got %s", rate.Pair())
	}
	if rate.AsOf.IsZero() {
		t.Fatal("expected default as-of timestamp")
	}
}

func TestLatestPicksMostRecentObservation(t *testing.T) {
	svc := newTestService(t, 0, nil)
	ctx := context.Background()

	older := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	if _, err := svc.RecordRate(ctx, "EUR", "USD", 1.05, older); err != nil {
		t.Fatalf("RecordRate returned error: %v", err)
	}
	if _, err := svc.RecordRate(ctx, "EUR", "USD", 1.09, newer); err != nil {
		t.Fatalf("RecordRate returned error: %v", err)
	}

	rate, err := svc.Latest(ctx, "EUR", "USD")
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if rate.Rate != 1.09 {
		t.Fatalf("expected most recent rate 1.09, got %f", rate.Rate)
	}
}

func TestLatestUnknownPair(t *testing.T) {
	svc := newTestService(t, 0, nil)
	if _, err := svc.Latest(context.Background(), "GBP", "JPY"); !errors.Is(err, ErrNoRate) {
		t.Fatalf("expected ErrNoRate, got %v", err)
	}
}

func TestConvertIdentity(t *testing.T) {
	svc := newTestService(t, 0, nil)
	conv, err := svc.Convert(context.Background(), 12345, "USD", "usd")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if conv.AmountCents != 12345 {
		t.Fatalf("identity conversion changed the amount: %d", conv.AmountCents)
	}
	if conv.Rate != nil {
		t.Fatal("identity conversion should not load a rate")
	}
}

func TestConvertAppliesRate(t *testing.T) {
	svc := newTestService(t, 0, nil)
	ctx := context.Background()

	if _, err := svc.RecordRate(ctx, "EUR", "USD", 1.1, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("RecordRate returned error: %v", err)
	}
	conv, err := svc.Convert(ctx, 10000, "EUR", "USD")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if conv.AmountCents != 11000 {
		t.Fatalf("expected 11000 cents, got %d", conv.AmountCents)
	}
	if conv.Stale {
		t.Fatal("fresh rate flagged stale")
	}
}

func TestConvertFlagsStaleRate(t *testing.T) {
	log := &recordingLogger{}
	svc := newTestService(t, 7*24*time.Hour, log)
	ctx := context.Background()

	if _, err := svc.RecordRate(ctx, "EUR", "USD", 1.1, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("RecordRate returned error: %v", err)
	}
	conv, err := svc.Convert(ctx, 10000, "EUR", "USD")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !conv.Stale {
		t.Fatal("expected stale flag on two-month-old rate")
	}
	if len(log.warnings) != 1 {
		t.Fatalf("expected one staleness warning, got %d", len(log.warnings))
	}
}
