package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Repository defines base CRUD helpers reused by entity-specific interfaces.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, opts ListOptions) (ListResult[T], error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type CostRepository interface {
	Repository[domain.CostEntry]
	ListByCategory(ctx context.Context, category string, opts ListOptions) (ListResult[domain.CostEntry], error)
	ListRecurring(ctx context.Context) ([]domain.CostEntry, error)
}

type SaleRepository interface {
	Repository[domain.SaleEntry]
	ListByChannel(ctx context.Context, channel string, opts ListOptions) (ListResult[domain.SaleEntry], error)
}

type LoanPaymentRepository interface {
	Repository[domain.LoanPayment]
	ListByLoan(ctx context.Context, loanName string) ([]domain.LoanPayment, error)
}

type FxRateRepository interface {
	Repository[domain.FxRate]
	Latest(ctx context.Context, base, quote string) (*domain.FxRate, error)
}
