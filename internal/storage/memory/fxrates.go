package memory

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	"github.com/google/uuid"
)

type FxRateRepository struct {
	base table[domain.FxRate]
}

func NewFxRateRepository() *FxRateRepository {
	return &FxRateRepository{
		base: newTable(func(r *domain.FxRate) *domain.RecordMeta { return &r.RecordMeta }),
	}
}

func (r *FxRateRepository) Create(ctx context.Context, rate *domain.FxRate) error {
	return r.base.create(ctx, rate)
}

func (r *FxRateRepository) Update(ctx context.Context, rate *domain.FxRate) error {
	return r.base.update(ctx, rate)
}

func (r *FxRateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FxRate, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *FxRateRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.FxRate], error) {
	return r.base.list(ctx, opts)
}

func (r *FxRateRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *FxRateRepository) Latest(ctx context.Context, base, quote string) (*domain.FxRate, error) {
	res, err := r.base.list(ctx, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	var latest *domain.FxRate
	for i := range res.Items {
		rate := res.Items[i]
		if rate.Base != base || rate.Quote != quote {
			continue
		}
		if latest == nil || rate.AsOf.After(latest.AsOf) {
			copy := rate
			latest = &copy
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}
