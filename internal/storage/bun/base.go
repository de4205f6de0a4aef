package bunrepo

import (
	"context"
	"time"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// sqlRepo wraps a go-repository-bun repository with the metadata bookkeeping
// shared by every table: id assignment, timestamps, and soft deletes.
type sqlRepo[T any] struct {
	repo repository.Repository[*T]
	db   *bun.DB
	meta func(*T) *domain.RecordMeta
}

func newSQLRepo[T any](db *bun.DB, handlers repository.ModelHandlers[*T], meta func(*T) *domain.RecordMeta) sqlRepo[T] {
	return sqlRepo[T]{
		repo: repository.MustNewRepository[*T](db, handlers),
		db:   db,
		meta: meta,
	}
}

// touch stamps the record metadata ahead of a write.
func (r sqlRepo[T]) touch(record *T) *domain.RecordMeta {
	m := r.meta(record)
	m.UpdatedAt = time.Now().UTC()
	return m
}

func (r sqlRepo[T]) create(ctx context.Context, record *T) error {
	m := r.touch(record)
	m.EnsureID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}
	_, err := r.repo.Create(ctx, record)
	return mapError(err)
}

func (r sqlRepo[T]) update(ctx context.Context, record *T) error {
	r.touch(record)
	_, err := r.repo.Update(ctx, record)
	return mapError(err)
}

func (r sqlRepo[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	criteria := []repository.SelectCriteria{withID(id)}
	if !includeDeleted {
		criteria = append(criteria, withoutDeleted())
	}
	record, err := r.repo.Get(ctx, criteria...)
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (r sqlRepo[T]) list(ctx context.Context, opts store.ListOptions, extra ...repository.SelectCriteria) (store.ListResult[T], error) {
	criteria := append([]repository.SelectCriteria{withListOptions(opts)}, extra...)
	records, total, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return store.ListResult[T]{}, mapError(err)
	}
	items := make([]T, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return store.ListResult[T]{Items: items, Total: total}, nil
}

func (r sqlRepo[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	record, err := r.getByID(ctx, id, true)
	if err != nil {
		return err
	}
	r.touch(record).DeletedAt = time.Now().UTC()
	_, err = r.repo.Update(ctx, record)
	return mapError(err)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsRecordNotFound(err) {
		return store.ErrNotFound
	}
	return err
}
