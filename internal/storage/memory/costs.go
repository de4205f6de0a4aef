package memory

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	"github.com/google/uuid"
)

type CostRepository struct {
	base table[domain.CostEntry]
}

func NewCostRepository() *CostRepository {
	return &CostRepository{
		base: newTable(func(c *domain.CostEntry) *domain.RecordMeta { return &c.RecordMeta }),
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
	res, err := r.base.list(ctx, opts)
	if err != nil {
		return store.ListResult[domain.CostEntry]{}, err
	}
	items := make([]domain.CostEntry, 0)
	for _, entry := range res.Items {
		if entry.Category == category {
			items = append(items, entry)
		}
	}
	return store.ListResult[domain.CostEntry]{Items: items, Total: len(items)}, nil
}

func (r *CostRepository) ListRecurring(ctx context.Context) ([]domain.CostEntry, error) {
	res, err := r.base.list(ctx, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	items := make([]domain.CostEntry, 0)
	for _, entry := range res.Items {
		if entry.Recurring {
			items = append(items, entry)
		}
	}
	return items, nil
}
