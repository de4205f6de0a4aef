package fx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
)

var (
	errRatesRequired = errors.New("fx: rate repository is required")

	ErrMissingPair = errors.New("fx: base and quote currencies are required")
	ErrInvalidRate = errors.New("fx: rate must be positive")
	ErrNoRate      = errors.New("fx: no rate recorded for pair")
)

// Dependencies wires the rate repository and logging into the service.
type Dependencies struct {
	Rates store.FxRateRepository
	// MaxAge is how old a rate may be before conversions log a staleness
	// warning. Zero disables the check.
	MaxAge time.Duration
	Logger logger.Logger
	Clock  func() time.Time
}

// Service stores exchange rates and converts amounts between currencies.
type Service struct {
	rates  store.FxRateRepository
	maxAge time.Duration
	log    logger.Logger
	clock  func() time.Time
}

// New constructs the fx service.
func New(deps Dependencies) (*Service, error) {
	if deps.Rates == nil {
		return nil, errRatesRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Service{
		rates:  deps.Rates,
		maxAge: deps.MaxAge,
		log:    deps.Logger,
		clock:  deps.Clock,
	}, nil
}

// RecordRate persists a new observation for a currency pair. Currencies are
// normalized to upper case.
func (s *Service) RecordRate(ctx context.Context, base, quote string, rate float64, asOf time.Time) (*domain.FxRate, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return nil, ErrMissingPair
	}
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if asOf.IsZero() {
		asOf = s.clock().UTC()
	}
	record := &domain.FxRate{
		Base:  base,
		Quote: quote,
		Rate:  rate,
		AsOf:  asOf,
	}
	if err := s.rates.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record rate: %w", err)
	}
	s.log.Debug("fx rate recorded", "pair", record.Pair(), "rate", rate)
	return record, nil
}

// Latest returns the most recent rate for a pair.
func (s *Service) Latest(ctx context.Context, base, quote string) (*domain.FxRate, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return nil, ErrMissingPair
	}
	rate, err := s.rates.Latest(ctx, base, quote)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoRate, base, quote)
	}
	return rate, err
}

// Conversion carries a converted amount along with the rate that produced it.
type Conversion struct {
	AmountCents int64          `json:"amount_cents"`
	Rate        *domain.FxRate `json:"rate"`
	Stale       bool           `json:"stale"`
}

// Convert translates an amount from one currency to another using the most
// recent recorded rate. Same-currency conversions are the identity. Rates
// older than MaxAge still convert but are flagged stale and logged.
func (s *Service) Convert(ctx context.Context, amountCents int64, from, to string) (Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return Conversion{}, ErrMissingPair
	}
	if from == to {
		return Conversion{AmountCents: amountCents}, nil
	}
	rate, err := s.Latest(ctx, from, to)
	if err != nil {
		return Conversion{}, err
	}
	out := Conversion{
		AmountCents: int64(math.Round(float64(amountCents) * rate.Rate)),
		Rate:        rate,
	}
	if s.maxAge > 0 && s.clock().Sub(rate.AsOf) > s.maxAge {
		out.Stale = true
		s.log.Warn("fx rate is stale", "pair", rate.Pair(), "as_of", rate.AsOf)
	}
	return out, nil
}
