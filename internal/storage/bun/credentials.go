package bunrepo

import (
	"context"
	"time"

	iface "github.com/goliatone/go-cashflow/pkg/interfaces/credentials"
	"github.com/uptrace/bun"
)

type credentialRecord struct {
	bun.BaseModel `bun:"table:api_credentials"`

	ID          int64          `bun:",pk,autoincrement"`
	UserID      string         `bun:",notnull,unique:credential_identity"`
	ServiceType string         `bun:",notnull"`
	KeyName     string         `bun:",notnull,unique:credential_identity"`
	Cipher      []byte         `bun:",notnull"`
	Nonce       []byte         `bun:",notnull"`
	Metadata    map[string]any `bun:",type:jsonb"`
	CreatedAt   time.Time      `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time      `bun:",nullzero,notnull,default:current_timestamp"`
	DeletedAt   bun.NullTime   `bun:",soft_delete,nullzero"`
}

// CredentialStore persists encrypted API credentials, one row per
// (user, key name).
type CredentialStore struct {
	db *bun.DB
}

func NewCredentialStore(db *bun.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

func (s *CredentialStore) Put(ctx context.Context, rec iface.Record) error {
	model := toCredentialRecord(rec)
	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (user_id, key_name) DO UPDATE").
		Set("service_type = EXCLUDED.service_type").
		Set("cipher = EXCLUDED.cipher").
		Set("nonce = EXCLUDED.nonce").
		Set("metadata = EXCLUDED.metadata").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return err
}

func (s *CredentialStore) Get(ctx context.Context, userID, keyName string) (iface.Record, error) {
	var rec credentialRecord
	err := s.db.NewSelect().
		Model(&rec).
		Where("user_id = ? AND key_name = ?", userID, keyName).
		Where("deleted_at IS NULL").
		Limit(1).
		Scan(ctx)
	if err != nil {
		// sql.ErrNoRows flows through; the encrypted store maps it to ErrNotFound.
		return iface.Record{}, err
	}
	return fromCredentialRecord(rec), nil
}

func (s *CredentialStore) Delete(ctx context.Context, userID, keyName string) error {
	_, err := s.db.NewDelete().
		Model((*credentialRecord)(nil)).
		Where("user_id = ? AND key_name = ?", userID, keyName).
		Exec(ctx)
	return err
}

func (s *CredentialStore) List(ctx context.Context, userID, serviceType string) ([]iface.Record, error) {
	var recs []credentialRecord
	query := s.db.NewSelect().Model(&recs).Where("deleted_at IS NULL")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	results := make([]iface.Record, 0, len(recs))
	for _, r := range recs {
		results = append(results, fromCredentialRecord(r))
	}
	return results, nil
}

func toCredentialRecord(rec iface.Record) *credentialRecord {
	return &credentialRecord{
		UserID:      rec.UserID,
		ServiceType: rec.ServiceType,
		KeyName:     rec.KeyName,
		Cipher:      rec.Cipher,
		Nonce:       rec.Nonce,
		Metadata:    rec.Metadata,
	}
}

func fromCredentialRecord(rec credentialRecord) iface.Record {
	return iface.Record{
		UserID:      rec.UserID,
		ServiceType: rec.ServiceType,
		KeyName:     rec.KeyName,
		Cipher:      rec.Cipher,
		Nonce:       rec.Nonce,
		Metadata:    rec.Metadata,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		DeletedAt:   rec.DeletedAt,
	}
}
