package credentials

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	iface "github.com/goliatone/go-cashflow/pkg/interfaces/credentials"
	"golang.org/x/crypto/chacha20poly1305"
)

// Value carries a decrypted credential payload.
type Value struct {
	Data        []byte
	ServiceType string
	Retrieved   time.Time
	Metadata    map[string]any
}

// Zero overwrites the plaintext in place.
func (v *Value) Zero() {
	for i := range v.Data {
		v.Data[i] = 0
	}
	v.Data = v.Data[:0]
}

// EncryptedStore persists credentials encrypted via a Store.
type EncryptedStore struct {
	store iface.Store
	aead  cipherSuite
	now   func() time.Time
}

type cipherSuite interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
}

// NewEncryptedStore builds a credential store using the given backend and key.
func NewEncryptedStore(store iface.Store, key []byte) (*EncryptedStore, error) {
	if store == nil {
		return nil, fmt.Errorf("credentials: store required")
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("credentials: key must be %d bytes", chacha20poly1305.KeySize)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &EncryptedStore{
		store: store,
		aead:  aead,
		now:   time.Now().UTC,
	}, nil
}

// Get fetches and decrypts the credential registered under keyName for the user.
func (s *EncryptedStore) Get(ctx context.Context, userID, keyName string) (Value, error) {
	if err := ValidateKey(userID, keyName); err != nil {
		return Value{}, err
	}
	rec, err := s.store.Get(ctx, userID, keyName)
	if err != nil {
		return Value{}, translateStoreError(err)
	}
	plain, err := s.aead.Open(nil, rec.Nonce, rec.Cipher, nil)
	if err != nil {
		return Value{}, fmt.Errorf("decrypt: %w", err)
	}
	return Value{
		Data:        plain,
		ServiceType: rec.ServiceType,
		Retrieved:   s.now(),
		Metadata:    rec.Metadata,
	}, nil
}

// WithSecret runs fn with the decrypted credential and zeroes the plaintext
// before returning, on every exit path.
func (s *EncryptedStore) WithSecret(ctx context.Context, userID, keyName string, fn func(Value) error) error {
	val, err := s.Get(ctx, userID, keyName)
	if err != nil {
		return err
	}
	defer val.Zero()
	return fn(val)
}

// Save encrypts and upserts the credential.
func (s *EncryptedStore) Save(ctx context.Context, userID, serviceType, keyName string, value []byte) error {
	if err := ValidateKey(userID, keyName); err != nil {
		return err
	}
	if len(value) == 0 {
		return ErrEmptyValue
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	cipher := s.aead.Seal(nil, nonce, value, nil)
	rec := iface.Record{
		UserID:      userID,
		ServiceType: serviceType,
		KeyName:     keyName,
		Cipher:      cipher,
		Nonce:       nonce,
		Metadata:    map[string]any{"created_at": s.now()},
	}
	return translateStoreError(s.store.Put(ctx, rec))
}

// Delete removes the credential.
func (s *EncryptedStore) Delete(ctx context.Context, userID, keyName string) error {
	if err := ValidateKey(userID, keyName); err != nil {
		return err
	}
	return translateStoreError(s.store.Delete(ctx, userID, keyName))
}

// Describe returns non-sensitive metadata for the credential.
func (s *EncryptedStore) Describe(ctx context.Context, userID, keyName string) (map[string]any, error) {
	if err := ValidateKey(userID, keyName); err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, userID, keyName)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return map[string]any{
		"service_type": rec.ServiceType,
		"meta":         rec.Metadata,
	}, nil
}

// List returns the key names and service types registered for a user.
func (s *EncryptedStore) List(ctx context.Context, userID, serviceType string) ([]iface.Record, error) {
	recs, err := s.store.List(ctx, userID, serviceType)
	if err != nil {
		return nil, translateStoreError(err)
	}
	// Strip ciphertext so callers only see identity fields.
	out := make([]iface.Record, 0, len(recs))
	for _, rec := range recs {
		rec.Cipher = nil
		rec.Nonce = nil
		out = append(out, rec)
	}
	return out, nil
}

func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	// Drivers and query builders wrap sql.ErrNoRows.
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
