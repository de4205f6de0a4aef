package bunrepo

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CostRepository struct {
	base sqlRepo[domain.CostEntry]
}

func NewCostRepository(db *bun.DB) *CostRepository {
	handlers := repository.ModelHandlers[*domain.CostEntry]{
		NewRecord:          func() *domain.CostEntry { return &domain.CostEntry{} },
		GetID:              func(c *domain.CostEntry) uuid.UUID { return c.ID },
		SetID:              func(c *domain.CostEntry, id uuid.UUID) { c.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(c *domain.CostEntry) string { return c.ID.String() },
	}
	return &CostRepository{
		base: newSQLRepo[domain.CostEntry](db, handlers, func(c *domain.CostEntry) *domain.RecordMeta { return &c.RecordMeta }),
	}
}

func (r *CostRepository) Create(ctx context.Context, entry *domain.CostEntry) error {
	if entry.Category == "" {
		entry.Category = domain.CostCategoryOther
	}
	return r.base.create(ctx, entry)
}

func (r *CostRepository) Update(ctx context.Context, entry *domain.CostEntry) error {
	return r.base.update(ctx, entry)
}

func (r *CostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostEntry, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *CostRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.CostEntry], error) {
	return r.base.list(ctx, opts)
}

func (r *CostRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *CostRepository) ListByCategory(ctx context.Context, category string, opts store.ListOptions) (store.ListResult[domain.CostEntry], error) {
	return r.base.list(ctx, opts, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("category = ?", category)
	})
}

func (r *CostRepository) ListRecurring(ctx context.Context) ([]domain.CostEntry, error) {
	records, _, err := r.base.repo.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("recurring = ?", true).Where("deleted_at IS NULL")
	})
	if err != nil {
		return nil, mapError(err)
	}
	items := make([]domain.CostEntry, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return items, nil
}
