package credentials

import (
	"context"
	"sync"

	iface "github.com/goliatone/go-cashflow/pkg/interfaces/credentials"
)

// MemoryStore is a simple in-memory implementation of a credential Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]iface.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]iface.Record)}
}

func (m *MemoryStore) Put(_ context.Context, rec iface.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[rec.UserID+"|"+rec.KeyName] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, userID, keyName string) (iface.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[userID+"|"+keyName]
	if !ok {
		return iface.Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, keyName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID+"|"+keyName)
	return nil
}

func (m *MemoryStore) List(_ context.Context, userID, serviceType string) ([]iface.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []iface.Record
	for _, rec := range m.items {
		if userID != "" && rec.UserID != userID {
			continue
		}
		if serviceType != "" && rec.ServiceType != serviceType {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
