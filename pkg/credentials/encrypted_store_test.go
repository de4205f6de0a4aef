package credentials

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	iface "github.com/goliatone/go-cashflow/pkg/interfaces/credentials"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func newTestStore(t *testing.T) *EncryptedStore {
	t.Helper()
	store, err := NewEncryptedStore(NewMemoryStore(), testKey())
	if err != nil {
		t.Fatalf("NewEncryptedStore returned error: %v", err)
	}
	return store
}

func TestNewEncryptedStoreValidation(t *testing.T) {
	if _, err := NewEncryptedStore(nil, testKey()); err == nil {
		t.Fatal("expected error for nil backend")
	}
	if _, err := NewEncryptedStore(NewMemoryStore(), []byte("short")); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	secret := []byte("sk_live_roundtrip_value")
	if err := store.Save(ctx, "user-1", "stripe", "stripe_api_key", secret); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	val, err := store.Get(ctx, "user-1", "stripe_api_key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !bytes.Equal(val.Data, secret) {
		t.Fatalf("decrypted value mismatch: %q", val.Data)
	}
	if val.ServiceType != "stripe" {
		t.Fatalf("unexpected service type %q", val.ServiceType)
	}
	if val.Retrieved.IsZero() {
		t.Fatal("expected retrieval timestamp")
	}
}

func TestSaveRejectsEmptyValue(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(context.Background(), "user-1", "stripe", "stripe_api_key", nil); !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
}

func TestGetValidatesIdentity(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "", "stripe_api_key"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for empty user, got %v", err)
	}
	if _, err := store.Get(context.Background(), "user-1", ""); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for empty key name, got %v", err)
	}
}

func TestGetMissingCredential(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "user-1", "openai_api_key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", "stripe", "stripe_api_key", []byte("first")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "user-1", "stripe", "stripe_api_key", []byte("second")); err != nil {
		t.Fatalf("Save (overwrite) returned error: %v", err)
	}

	val, err := store.Get(ctx, "user-1", "stripe_api_key")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(val.Data) != "second" {
		t.Fatalf("expected overwritten value, got %q", val.Data)
	}
}

func TestWithSecretZeroesAfterUse(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", "openai", "openai_api_key", []byte("sk-zero-after-use")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	var captured []byte
	err := store.WithSecret(ctx, "user-1", "openai_api_key", func(val Value) error {
		captured = val.Data
		if string(val.Data) != "sk-zero-after-use" {
			t.Fatalf("unexpected plaintext %q", val.Data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSecret returned error: %v", err)
	}
	// The buffer handed to the callback must be wiped once WithSecret returns.
	for _, b := range captured {
		if b != 0 {
			t.Fatal("plaintext survived WithSecret")
		}
	}
}

func TestWithSecretZeroesOnCallbackError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", "openai", "openai_api_key", []byte("sk-error-path")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	wantErr := errors.New("callback failed")
	var captured []byte
	err := store.WithSecret(ctx, "user-1", "openai_api_key", func(val Value) error {
		captured = val.Data
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected callback error, got %v", err)
	}
	for _, b := range captured {
		if b != 0 {
			t.Fatal("plaintext survived failed callback")
		}
	}
}

func TestDeleteRemovesCredential(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", "stripe", "stripe_api_key", []byte("gone-soon")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Delete(ctx, "user-1", "stripe_api_key"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, "user-1", "stripe_api_key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListStripsCiphertext(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", "stripe", "stripe_api_key", []byte("aaa")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "user-1", "openai", "openai_api_key", []byte("bbb")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(ctx, "user-2", "stripe", "stripe_api_key", []byte("ccc")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	recs, err := store.List(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for user-1, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.Cipher != nil || rec.Nonce != nil {
			t.Fatal("List leaked ciphertext")
		}
	}

	recs, err = store.List(ctx, "user-1", "stripe")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(recs) != 1 || recs[0].KeyName != "stripe_api_key" {
		t.Fatalf("unexpected filtered records: %+v", recs)
	}
}

// noRowsStore mimics a SQL backend whose driver wraps sql.ErrNoRows.
type noRowsStore struct{}

func (noRowsStore) Put(ctx context.Context, rec iface.Record) error { return nil }
func (noRowsStore) Get(ctx context.Context, userID, keyName string) (iface.Record, error) {
	return iface.Record{}, fmt.Errorf("query credential: %w", sql.ErrNoRows)
}
func (noRowsStore) Delete(ctx context.Context, userID, keyName string) error { return nil }
func (noRowsStore) List(ctx context.Context, userID, serviceType string) ([]iface.Record, error) {
	return nil, nil
}

func TestGetTranslatesWrappedNoRows(t *testing.T) {
	store, err := NewEncryptedStore(noRowsStore{}, testKey())
	if err != nil {
		t.Fatalf("NewEncryptedStore returned error: %v", err)
	}
	if _, err := store.Get(context.Background(), "user-1", "stripe_api_key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrapped sql.ErrNoRows, got %v", err)
	}
}
