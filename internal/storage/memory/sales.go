package memory

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	"github.com/google/uuid"
)

type SaleRepository struct {
	base table[domain.SaleEntry]
}

func NewSaleRepository() *SaleRepository {
	return &SaleRepository{
		base: newTable(func(s *domain.SaleEntry) *domain.RecordMeta { return &s.RecordMeta }),
	}
}

func (r *SaleRepository) Create(ctx context.Context, entry *domain.SaleEntry) error {
	if entry.Channel == "" {
		entry.Channel = domain.SaleChannelOnline
	}
	return r.base.create(ctx, entry)
}

func (r *SaleRepository) Update(ctx context.Context, entry *domain.SaleEntry) error {
	return r.base.update(ctx, entry)
}

func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SaleEntry, error) {
	return r.base.getByID(ctx, id, false)
}

func (r *SaleRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.SaleEntry], error) {
	return r.base.list(ctx, opts)
}

func (r *SaleRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.base.softDelete(ctx, id)
}

func (r *SaleRepository) ListByChannel(ctx context.Context, channel string, opts store.ListOptions) (store.ListResult[domain.SaleEntry], error) {
	res, err := r.base.list(ctx, opts)
	if err != nil {
		return store.ListResult[domain.SaleEntry]{}, err
	}
	items := make([]domain.SaleEntry, 0)
	for _, entry := range res.Items {
		if entry.Channel == channel {
			items = append(items, entry)
		}
	}
	return store.ListResult[domain.SaleEntry]{Items: items, Total: len(items)}, nil
}
