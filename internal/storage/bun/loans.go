package bunrepo

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type LoanPaymentRepository struct {
	base sqlRepo[domain.LoanPayment]
}

func NewLoanPaymentRepository(db *bun.DB) *LoanPaymentRepository {
	handlers := repository.ModelHandlers[*domain.LoanPayment]{
		NewRecord:          func() *domain.LoanPayment { return &domain.LoanPayment{} },
		GetID:              func(p *domain.LoanPayment) uuid.UUID { return p.ID },
		SetID:              func(p *domain.LoanPayment, id uuid.UUID) { p.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(p *domain.LoanPayment) string { return p.ID.String() },
	}
	return &LoanPaymentRepository{
		base: newSQLRepo[domain.LoanPayment](db, handlers, func(p *domain.LoanPayment) *domain.RecordMeta { return &p.RecordMeta }),
	}
}

func (r *LoanPaymentRepository) Create(ctx context.Context, payment *domain.LoanPayment) error {
	return r.base.create(ctx, payment)
}

func (r *LoanPaymentRepository) Update(ctx context.Context, payment *domain.LoanPayment) error {
	return r.base.update(ctx, payment)
}

func (r *LoanPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanPayment, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *LoanPaymentRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.LoanPayment], error) {
	return r.base.list(ctx, opts)
}

func (r *LoanPaymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *LoanPaymentRepository) ListByLoan(ctx context.Context, loanName string) ([]domain.LoanPayment, error) {
	records, _, err := r.base.repo.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("loan_name = ?", loanName).Where("deleted_at IS NULL").Order("paid_on ASC")
	})
	if err != nil {
		return nil, mapError(err)
	}
	items := make([]domain.LoanPayment, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return items, nil
}
