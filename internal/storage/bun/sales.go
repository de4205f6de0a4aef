package bunrepo

import (
	"context"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SaleRepository struct {
	base sqlRepo[domain.SaleEntry]
}

func NewSaleRepository(db *bun.DB) *SaleRepository {
	handlers := repository.ModelHandlers[*domain.SaleEntry]{
		NewRecord:          func() *domain.SaleEntry { return &domain.SaleEntry{} },
		GetID:              func(s *domain.SaleEntry) uuid.UUID { return s.ID },
		SetID:              func(s *domain.SaleEntry, id uuid.UUID) { s.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(s *domain.SaleEntry) string { return s.ID.String() },
	}
	return &SaleRepository{
		base: newSQLRepo[domain.SaleEntry](db, handlers, func(s *domain.SaleEntry) *domain.RecordMeta { return &s.RecordMeta }),
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
	return r.base.list(ctx, opts, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("channel = ?", channel)
	})
}
