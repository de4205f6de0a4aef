package bunrepo

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type FxRateRepository struct {
	base sqlRepo[domain.FxRate]
}

func NewFxRateRepository(db *bun.DB) *FxRateRepository {
	handlers := repository.ModelHandlers[*domain.FxRate]{
		NewRecord:          func() *domain.FxRate { return &domain.FxRate{} },
		GetID:              func(r *domain.FxRate) uuid.UUID { return r.ID },
		SetID:              func(r *domain.FxRate, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *domain.FxRate) string { return r.ID.String() },
	}
	return &FxRateRepository{
		base: newSQLRepo[domain.FxRate](db, handlers, func(r *domain.FxRate) *domain.RecordMeta { return &r.RecordMeta }),
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
	rate, err := r.base.repo.Get(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("base = ?", base).
			Where("quote = ?", quote).
			Where("deleted_at IS NULL").
			OrderExpr("as_of DESC").
			Limit(1)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return rate, nil
}
