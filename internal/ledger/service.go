package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
)

var (
	errCostsRequired = errors.New("ledger: cost repository is required")
	errSalesRequired = errors.New("ledger: sale repository is required")

	ErrInvalidAmount   = errors.New("ledger: amount must be positive")
	ErrMissingCurrency = errors.New("ledger: currency is required")
)

// Dependencies wires repositories and logging into the service.
type Dependencies struct {
	Costs  store.CostRepository
	Sales  store.SaleRepository
	Logger logger.Logger
	Clock  func() time.Time
}

// Service records costs and sales and computes the aggregates behind the
// dashboard charts.
type Service struct {
	costs store.CostRepository
	sales store.SaleRepository
	log   logger.Logger
	clock func() time.Time
}

// New constructs the ledger service.
func New(deps Dependencies) (*Service, error) {
	if deps.Costs == nil {
		return nil, errCostsRequired
	}
	if deps.Sales == nil {
		return nil, errSalesRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		costs: deps.Costs,
		sales: deps.Sales,
		log:   deps.Logger,
		clock: deps.Clock,
	}, nil
}

// CostInput captures persistence fields for recording a cost.
type CostInput struct {
	Category    string         `json:"category"`
	Description string         `json:"description"`
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	Recurring   bool           `json:"recurring"`
	IncurredOn  time.Time      `json:"incurred_on"`
	Metadata    domain.JSONMap `json:"metadata,omitempty"`
}

// SaleInput captures persistence fields for recording a sale.
type SaleInput struct {
	Channel     string         `json:"channel"`
	Description string         `json:"description"`
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	SoldOn      time.Time      `json:"sold_on"`
	Metadata    domain.JSONMap `json:"metadata,omitempty"`
}

// RecordCost validates and persists a cost entry.
func (s *Service) RecordCost(ctx context.Context, input CostInput) (*domain.CostEntry, error) {
	if input.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.Currency == "" {
		return nil, ErrMissingCurrency
	}
	if input.IncurredOn.IsZero() {
		input.IncurredOn = s.clock().UTC()
	}
	entry := &domain.CostEntry{
		Category:    input.Category,
		Description: input.Description,
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		Recurring:   input.Recurring,
		IncurredOn:  input.IncurredOn,
		Metadata:    input.Metadata,
	}
	if err := s.costs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record cost: %w", err)
	}
	s.log.Debug("cost recorded", "category", entry.Category, "amount_cents", entry.AmountCents)
	return entry, nil
}

// RecordSale validates and persists a sale entry.
func (s *Service) RecordSale(ctx context.Context, input SaleInput) (*domain.SaleEntry, error) {
	if input.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.Currency == "" {
		return nil, ErrMissingCurrency
	}
	if input.SoldOn.IsZero() {
		input.SoldOn = s.clock().UTC()
	}
	entry := &domain.SaleEntry{
		Channel:     input.Channel,
		Description: input.Description,
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		SoldOn:      input.SoldOn,
		Metadata:    input.Metadata,
	}
	if err := s.sales.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}
	s.log.Debug("sale recorded", "channel", entry.Channel, "amount_cents", entry.AmountCents)
	return entry, nil
}

// ListCosts returns cost entries with pagination.
func (s *Service) ListCosts(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.CostEntry], error) {
	return s.costs.List(ctx, opts)
}

// ListSales returns sale entries with pagination.
func (s *Service) ListSales(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.SaleEntry], error) {
	return s.sales.List(ctx, opts)
}

// DeleteCost soft-deletes a cost entry.
func (s *Service) DeleteCost(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.costs.SoftDelete(ctx, uid)
}

// DeleteSale soft-deletes a sale entry.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.sales.SoftDelete(ctx, uid)
}

// MonthlyTotals bundles one month of aggregated activity. Month is rendered
// as YYYY-MM.
type MonthlyTotals struct {
	Month      string `json:"month"`
	CostsCents int64  `json:"costs_cents"`
	SalesCents int64  `json:"sales_cents"`
	NetCents   int64  `json:"net_cents"`
}

// MonthlySummary buckets costs and sales by calendar month of their business
// date (incurred/sold, not created). Months with no activity are omitted.
func (s *Service) MonthlySummary(ctx context.Context, since, until time.Time) ([]MonthlyTotals, error) {
	costs, err := s.costs.List(ctx, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	sales, err := s.sales.List(ctx, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}

	buckets := make(map[string]*MonthlyTotals)
	bucket := func(when time.Time) *MonthlyTotals {
		month := when.UTC().Format("2006-01")
		if b, ok := buckets[month]; ok {
			return b
		}
		b := &MonthlyTotals{Month: month}
		buckets[month] = b
		return b
	}
	inRange := func(when time.Time) bool {
		if !since.IsZero() && when.Before(since) {
			return false
		}
		if !until.IsZero() && when.After(until) {
			return false
		}
		return true
	}

	for _, entry := range costs.Items {
		if inRange(entry.IncurredOn) {
			bucket(entry.IncurredOn).CostsCents += entry.AmountCents
		}
	}
	for _, entry := range sales.Items {
		if inRange(entry.SoldOn) {
			bucket(entry.SoldOn).SalesCents += entry.AmountCents
		}
	}

	out := make([]MonthlyTotals, 0, len(buckets))
	for _, b := range buckets {
		b.NetCents = b.SalesCents - b.CostsCents
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
