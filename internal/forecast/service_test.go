package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cashflow/internal/storage/memory"
	"github.com/goliatone/go-cashflow/pkg/domain"
)

func seedTestData(t *testing.T, costs *memory.CostRepository, sales *memory.SaleRepository) {
	t.Helper()
	ctx := context.Background()

	entries := []domain.CostEntry{
		{Category: "rent", AmountCents: 100000, Currency: "USD", Recurring: true, IncurredOn: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Category: "software", AmountCents: 5000, Currency: "USD", Recurring: true, IncurredOn: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Category: "supplies", AmountCents: 20000, Currency: "USD", IncurredOn: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range entries {
		if err := costs.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("seeding cost: %v", err)
		}
	}

	// 450000 cents of sales inside the trailing window plus one old sale
	// that must not count.
	saleEntries := []domain.SaleEntry{
		{Channel: "online", AmountCents: 150000, Currency: "USD", SoldOn: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)},
		{Channel: "in_store", AmountCents: 150000, Currency: "USD", SoldOn: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Channel: "online", AmountCents: 150000, Currency: "USD", SoldOn: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
		{Channel: "online", AmountCents: 900000, Currency: "USD", SoldOn: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range saleEntries {
		if err := sales.Create(ctx, &saleEntries[i]); err != nil {
			t.Fatalf("seeding sale: %v", err)
		}
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	costs := memory.NewCostRepository()
	sales := memory.NewSaleRepository()
	seedTestData(t, costs, sales)

	svc, err := New(Dependencies{
		Costs: costs,
		Sales: sales,
		Clock: func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return svc
}

func TestProjectRejectsBadHorizon(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Project(context.Background(), 0, 0); !errors.Is(err, ErrInvalidHorizon) {
		t.Fatalf("expected ErrInvalidHorizon, got %v", err)
	}
}

func TestProjectSeries(t *testing.T) {
	svc := newTestService(t)

	series, err := svc.Project(context.Background(), 500000, 3)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 months, got %d", len(series))
	}

	// Recurring costs total 105000/month; trailing sales average is
	// 450000 / 3 = 150000/month; net +45000/month.
	first := series[0]
	if first.Month != "2026-06" {
		t.Fatalf("expected projection to start next month, got %s", first.Month)
	}
	if first.ExpectedCostsCents != 105000 {
		t.Fatalf("expected recurring costs 105000, got %d", first.ExpectedCostsCents)
	}
	if first.ExpectedSalesCents != 150000 {
		t.Fatalf("expected sales average 150000, got %d", first.ExpectedSalesCents)
	}
	if first.ProjectedBalanceCents != 545000 {
		t.Fatalf("expected first balance 545000, got %d", first.ProjectedBalanceCents)
	}
	if series[2].ProjectedBalanceCents != 635000 {
		t.Fatalf("expected final balance 635000, got %d", series[2].ProjectedBalanceCents)
	}
}

func TestProjectMonthLabelsFromMonthEnd(t *testing.T) {
	costs := memory.NewCostRepository()
	sales := memory.NewSaleRepository()
	seedTestData(t, costs, sales)

	// A month-end clock must not skip or duplicate labels: naive AddDate on
	// Jan 31 lands in March twice and never in February.
	svc, err := New(Dependencies{
		Costs: costs,
		Sales: sales,
		Clock: func() time.Time { return time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	series, err := svc.Project(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	want := []string{"2026-02", "2026-03", "2026-04"}
	for i, month := range want {
		if series[i].Month != month {
			t.Fatalf("month %d: got %s want %s", i, series[i].Month, month)
		}
	}
}

func TestProjectIgnoresNonRecurringCosts(t *testing.T) {
	svc := newTestService(t)

	series, err := svc.Project(context.Background(), 0, 1)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	// The one-off 20000 supplies cost must not appear in the monthly burn.
	if series[0].ExpectedCostsCents != 105000 {
		t.Fatalf("one-off cost leaked into projection: %d", series[0].ExpectedCostsCents)
	}
}

func TestNewRequiresRepositories(t *testing.T) {
	if _, err := New(Dependencies{Sales: memory.NewSaleRepository()}); err == nil {
		t.Fatal("expected error when cost repository is missing")
	}
	if _, err := New(Dependencies{Costs: memory.NewCostRepository()}); err == nil {
		t.Fatal("expected error when sale repository is missing")
	}
}
