package credentials

import "context"

// Record represents an encrypted credential entry persisted by a store.
type Record struct {
	UserID      string
	ServiceType string
	KeyName     string
	Cipher      []byte
	Nonce       []byte
	Metadata    map[string]any
	CreatedAt   any
	UpdatedAt   any
	DeletedAt   any
}

// Store defines persistence operations for credential records.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, userID, keyName string) (Record, error)
	Delete(ctx context.Context, userID, keyName string) error
	List(ctx context.Context, userID, serviceType string) ([]Record, error)
}
