package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	"github.com/google/uuid"
)

// table is the storage primitive behind every in-memory repository: a mutex
// guarded map of rows plus an accessor for the embedded record metadata.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]T
	meta func(*T) *domain.RecordMeta
}

func newTable[T any](meta func(*T) *domain.RecordMeta) table[T] {
	return table[T]{
		rows: make(map[uuid.UUID]T),
		meta: meta,
	}
}

func (t *table[T]) create(ctx context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.meta(row)
	m.EnsureID()
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	t.rows[m.ID] = *row
	return nil
}

func (t *table[T]) update(ctx context.Context, row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := t.meta(row)
	if m.ID == uuid.Nil {
		return store.ErrNotFound
	}
	if _, ok := t.rows[m.ID]; !ok {
		return store.ErrNotFound
	}
	m.UpdatedAt = time.Now().UTC()
	t.rows[m.ID] = *row
	return nil
}

func (t *table[T]) getByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !includeDeleted && !t.meta(&row).DeletedAt.IsZero() {
		return nil, store.ErrNotFound
	}
	out := row
	return &out, nil
}

// visible reports whether a row passes the soft-delete and time window
// filters. Windows apply to CreatedAt, matching the SQL repositories.
func (t *table[T]) visible(row *T, opts store.ListOptions) bool {
	m := t.meta(row)
	if !opts.IncludeSoftDeleted && !m.DeletedAt.IsZero() {
		return false
	}
	if !opts.Since.IsZero() && m.CreatedAt.Before(opts.Since) {
		return false
	}
	if !opts.Until.IsZero() && m.CreatedAt.After(opts.Until) {
		return false
	}
	return true
}

func (t *table[T]) list(ctx context.Context, opts store.ListOptions) (store.ListResult[T], error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.visible(&row, opts) {
			matched = append(matched, row)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return t.meta(&matched[i]).CreatedAt.Before(t.meta(&matched[j]).CreatedAt)
	})

	return store.ListResult[T]{
		Items: paginate(matched, opts.Offset, opts.Limit),
		Total: len(matched),
	}, nil
}

func (t *table[T]) softDelete(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	if m := t.meta(&row); m.DeletedAt.IsZero() {
		m.DeletedAt = time.Now().UTC()
	}
	t.rows[id] = row
	return nil
}

func paginate[T any](rows []T, offset, limit int) []T {
	if offset > len(rows) {
		offset = len(rows)
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
