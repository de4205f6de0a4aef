package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
)

var (
	errCostsRequired = errors.New("forecast: cost repository is required")
	errSalesRequired = errors.New("forecast: sale repository is required")

	ErrInvalidHorizon = errors.New("forecast: horizon must be at least one month")
)

// DefaultTrailingMonths is how far back the sales average looks when the
// caller does not override it.
const DefaultTrailingMonths = 3

// Dependencies wires repositories and logging into the service.
type Dependencies struct {
	Costs store.CostRepository
	Sales store.SaleRepository
	// TrailingMonths sets the window for the historical sales average.
	TrailingMonths int
	Logger         logger.Logger
	Clock          func() time.Time
}

// Service projects future cash balances from recurring costs and the recent
// sales run rate.
type Service struct {
	costs    store.CostRepository
	sales    store.SaleRepository
	trailing int
	log      logger.Logger
	clock    func() time.Time
}

// New constructs the forecast service.
func New(deps Dependencies) (*Service, error) {
	if deps.Costs == nil {
		return nil, errCostsRequired
	}
	if deps.Sales == nil {
		return nil, errSalesRequired
	}
	if deps.TrailingMonths <= 0 {
		deps.TrailingMonths = DefaultTrailingMonths
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		costs:    deps.Costs,
		sales:    deps.Sales,
		trailing: deps.TrailingMonths,
		log:      deps.Logger,
		clock:    deps.Clock,
	}, nil
}

// MonthProjection is one month of the projected balance series.
type MonthProjection struct {
	Month                 string `json:"month"`
	ExpectedCostsCents    int64  `json:"expected_costs_cents"`
	ExpectedSalesCents    int64  `json:"expected_sales_cents"`
	ProjectedBalanceCents int64  `json:"projected_balance_cents"`
}

// Project walks forward from the given starting balance for the requested
// number of months. Each month subtracts the current recurring cost total
// and adds the average monthly sales over the trailing window.
func (s *Service) Project(ctx context.Context, startingBalanceCents int64, months int) ([]MonthProjection, error) {
	if months < 1 {
		return nil, ErrInvalidHorizon
	}

	monthlyCosts, err := s.recurringMonthlyCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	monthlySales, err := s.averageMonthlySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	now := s.clock().UTC()
	// Anchor to the first of the month: AddDate normalizes month-end dates
	// (Jan 31 + 1 month = Mar 3) and would skip or duplicate labels.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	balance := startingBalanceCents
	out := make([]MonthProjection, 0, months)
	for i := 1; i <= months; i++ {
		month := anchor.AddDate(0, i, 0)
		balance += monthlySales - monthlyCosts
		out = append(out, MonthProjection{
			Month:                 month.Format("2006-01"),
			ExpectedCostsCents:    monthlyCosts,
			ExpectedSalesCents:    monthlySales,
			ProjectedBalanceCents: balance,
		})
	}
	if balance < 0 {
		s.log.Warn("projected balance goes negative", "months", months, "final_cents", balance)
	}
	return out, nil
}

func (s *Service) recurringMonthlyCosts(ctx context.Context) (int64, error) {
	recurring, err := s.costs.ListRecurring(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range recurring {
		total += entry.AmountCents
	}
	return total, nil
}

func (s *Service) averageMonthlySales(ctx context.Context) (int64, error) {
	result, err := s.sales.List(ctx, store.ListOptions{})
	if err != nil {
		return 0, err
	}
	cutoff := s.clock().UTC().AddDate(0, -s.trailing, 0)
	var total int64
	for _, entry := range result.Items {
		if entry.SoldOn.Before(cutoff) {
			continue
		}
		total += entry.AmountCents
	}
	return total / int64(s.trailing), nil
}
