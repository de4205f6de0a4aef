package memory

import (
	"context"
	"sort"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	"github.com/google/uuid"
)

type LoanPaymentRepository struct {
	base table[domain.LoanPayment]
}

func NewLoanPaymentRepository() *LoanPaymentRepository {
	return &LoanPaymentRepository{
		base: newTable(func(p *domain.LoanPayment) *domain.RecordMeta { return &p.RecordMeta }),
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
	res, err := r.base.list(ctx, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	items := make([]domain.LoanPayment, 0)
	for _, payment := range res.Items {
		if payment.LoanName == loanName {
			items = append(items, payment)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].PaidOn.Before(items[j].PaidOn) })
	return items, nil
}
