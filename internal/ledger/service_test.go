package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cashflow/internal/storage/memory"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(Dependencies{
		Costs: memory.NewCostRepository(),
		Sales: memory.NewSaleRepository(),
		Clock: func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return svc
}

func TestRecordCostValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordCost(ctx, CostInput{Currency: "USD"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.RecordCost(ctx, CostInput{AmountCents: 500}); !errors.Is(err, ErrMissingCurrency) {
		t.Fatalf("expected ErrMissingCurrency, got %v", err)
	}
}

func TestRecordCostDefaultsDate(t *testing.T) {
	svc := newTestService(t)

	entry, err := svc.RecordCost(context.Background(), CostInput{
		Category:    "rent",
		AmountCents: 120000,
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("RecordCost returned error: %v", err)
	}
	want := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	if !entry.IncurredOn.Equal(want) {
		t.Fatalf("expected incurred date %v, got %v", want, entry.IncurredOn)
	}
	if entry.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected record to be assigned an ID")
	}
}

func TestRecordSaleAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordSale(ctx, SaleInput{
		Channel:     "online",
		AmountCents: 4500,
		Currency:    "USD",
	}); err != nil {
		t.Fatalf("RecordSale returned error: %v", err)
	}

	result, err := svc.ListSales(ctx, store.ListOptions{})
	if err != nil {
		t.Fatalf("ListSales returned error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 sale, got %d", result.Total)
	}
	if result.Items[0].Channel != "online" {
		t.Fatalf("unexpected channel %q", result.Items[0].Channel)
	}
}

func TestMonthlySummaryBucketsByBusinessDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	records := []CostInput{
		{Category: "rent", AmountCents: 100000, Currency: "USD", IncurredOn: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{Category: "supplies", AmountCents: 2500, Currency: "USD", IncurredOn: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)},
		{Category: "rent", AmountCents: 100000, Currency: "USD", IncurredOn: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, in := range records {
		if _, err := svc.RecordCost(ctx, in); err != nil {
			t.Fatalf("RecordCost returned error: %v", err)
		}
	}
	sales := []SaleInput{
		{Channel: "in_store", AmountCents: 150000, Currency: "USD", SoldOn: time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)},
		{Channel: "online", AmountCents: 80000, Currency: "USD", SoldOn: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, in := range sales {
		if _, err := svc.RecordSale(ctx, in); err != nil {
			t.Fatalf("RecordSale returned error: %v", err)
		}
	}

	summary, err := svc.MonthlySummary(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("MonthlySummary returned error: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 months, got %d", len(summary))
	}
	jan := summary[0]
	if jan.Month != "2026-01" {
		t.Fatalf("expected first month 2026-01, got %s", jan.Month)
	}
	if jan.CostsCents != 102500 {
		t.Fatalf("expected january costs 102500, got %d", jan.CostsCents)
	}
	if jan.NetCents != 150000-102500 {
		t.Fatalf("unexpected january net %d", jan.NetCents)
	}
	feb := summary[1]
	if feb.SalesCents != 80000 || feb.CostsCents != 100000 {
		t.Fatalf("unexpected february totals: %+v", feb)
	}
}

func TestMonthlySummaryRespectsRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for month := 1; month <= 4; month++ {
		_, err := svc.RecordCost(ctx, CostInput{
			Category:    "supplies",
			AmountCents: 1000,
			Currency:    "USD",
			IncurredOn:  time.Date(2026, time.Month(month), 10, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("RecordCost returned error: %v", err)
		}
	}

	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	summary, err := svc.MonthlySummary(ctx, since, until)
	if err != nil {
		t.Fatalf("MonthlySummary returned error: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 months inside the range, got %d", len(summary))
	}
	if summary[0].Month != "2026-02" || summary[1].Month != "2026-03" {
		t.Fatalf("unexpected months: %+v", summary)
	}
}

func TestDeleteCostRejectsBadID(t *testing.T) {
	svc := newTestService(t)
	if err := svc.DeleteCost(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
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
