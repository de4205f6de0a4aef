package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// Cost categories used by the ledger UI filters.
const (
	CostCategoryRent      = "rent"
	CostCategoryPayroll   = "payroll"
	CostCategorySoftware  = "software"
	CostCategoryMarketing = "marketing"
	CostCategoryLoan      = "loan"
	CostCategoryOther     = "other"
)

// Sale channels.
const (
	SaleChannelOnline  = "online"
	SaleChannelPOS     = "pos"
	SaleChannelInvoice = "invoice"
)

// CostEntry records a single business expense. Amounts are stored in minor
// units (cents) to avoid floating point drift in aggregates.
type CostEntry struct {
	bun.BaseModel `bun:"table:cost_entries"`
	RecordMeta

	Category    string    `bun:",notnull" json:"category"`
	Description string    `bun:"" json:"description"`
	AmountCents int64     `bun:",notnull" json:"amount_cents"`
	Currency    string    `bun:",notnull" json:"currency"`
	Recurring   bool      `bun:",notnull,default:false" json:"recurring"`
	IncurredOn  time.Time `bun:",notnull" json:"incurred_on"`
	Metadata    JSONMap   `bun:",type:jsonb" json:"metadata,omitempty"`
}

// SaleEntry records revenue from one sale or invoice.
type SaleEntry struct {
	bun.BaseModel `bun:"table:sale_entries"`
	RecordMeta

	Channel     string    `bun:",notnull" json:"channel"`
	Description string    `bun:"" json:"description"`
	AmountCents int64     `bun:",notnull" json:"amount_cents"`
	Currency    string    `bun:",notnull" json:"currency"`
	SoldOn      time.Time `bun:",notnull" json:"sold_on"`
	Metadata    JSONMap   `bun:",type:jsonb" json:"metadata,omitempty"`
}

// LoanPayment records one repayment with its principal/interest split.
type LoanPayment struct {
	bun.BaseModel `bun:"table:loan_payments"`
	RecordMeta

	LoanName       string    `bun:",notnull" json:"loan_name"`
	PrincipalCents int64     `bun:",notnull" json:"principal_cents"`
	InterestCents  int64     `bun:",notnull" json:"interest_cents"`
	Currency       string    `bun:",notnull" json:"currency"`
	PaidOn         time.Time `bun:",notnull" json:"paid_on"`
}

// TotalCents returns principal plus interest.
func (p LoanPayment) TotalCents() int64 {
	return p.PrincipalCents + p.InterestCents
}

// FxRate stores one observed exchange rate for a currency pair.
type FxRate struct {
	bun.BaseModel `bun:"table:fx_rates"`
	RecordMeta

	Base  string    `bun:",notnull" json:"base"`
	Quote string    `bun:",notnull" json:"quote"`
	Rate  float64   `bun:",notnull" json:"rate"`
	AsOf  time.Time `bun:",notnull" json:"as_of"`
}

// Pair renders the conventional BASE/QUOTE form.
func (r FxRate) Pair() string {
	return r.Base + "/" + r.Quote
}
