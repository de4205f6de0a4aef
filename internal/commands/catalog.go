package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cashflow/internal/ledger"
	"github.com/goliatone/go-cashflow/internal/loans"
	"github.com/goliatone/go-cashflow/pkg/domain"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/keys"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	RecordCost        command.Commander[RecordCost]
	RecordSale        command.Commander[RecordSale]
	RecordLoanPayment command.Commander[RecordLoanPayment]
	UpsertFxRate      command.Commander[UpsertFxRate]
	SaveCredential    command.Commander[SaveCredential]
	InvalidateKeys    command.Commander[InvalidateKeys]
}

type ledgerService interface {
	RecordCost(ctx context.Context, input ledger.CostInput) (*domain.CostEntry, error)
	RecordSale(ctx context.Context, input ledger.SaleInput) (*domain.SaleEntry, error)
}

type loanService interface {
	RecordPayment(ctx context.Context, input loans.PaymentInput) (*domain.LoanPayment, error)
}

type fxService interface {
	RecordRate(ctx context.Context, base, quote string, rate float64, asOf time.Time) (*domain.FxRate, error)
}

type credentialService interface {
	Save(ctx context.Context, userID, serviceType, keyName string, value []byte) error
}

type sessionManager interface {
	Resolver(sessionID, userID string) (*keys.Resolver, error)
}

// Dependencies wires services into the command catalog.
type Dependencies struct {
	Ledger      ledgerService
	Loans       loanService
	Fx          fxService
	Credentials credentialService
	Sessions    sessionManager
	Logger      logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Ledger == nil {
		return nil, errors.New("commands: ledger service is required")
	}
	if deps.Loans == nil {
		return nil, errors.New("commands: loan service is required")
	}
	if deps.Fx == nil {
		return nil, errors.New("commands: fx service is required")
	}
	if deps.Credentials == nil {
		return nil, errors.New("commands: credential service is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("commands: session manager is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		RecordCost:        recordCostCommand{svc: deps.Ledger},
		RecordSale:        recordSaleCommand{svc: deps.Ledger},
		RecordLoanPayment: recordLoanPaymentCommand{svc: deps.Loans},
		UpsertFxRate:      upsertFxRateCommand{svc: deps.Fx},
		SaveCredential:    saveCredentialCommand{svc: deps.Credentials, sessions: deps.Sessions},
		InvalidateKeys:    invalidateKeysCommand{sessions: deps.Sessions, log: deps.Logger},
	}, nil
}

// RecordCost is the payload for recording a cost entry.
type RecordCost struct {
	Category    string         `json:"category"`
	Description string         `json:"description"`
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	Recurring   bool           `json:"recurring"`
	IncurredOn  time.Time      `json:"incurred_on"`
	Metadata    map[string]any `json:"metadata"`
}

type recordCostCommand struct {
	svc ledgerService
}

func (c recordCostCommand) Execute(ctx context.Context, msg RecordCost) error {
	_, err := c.svc.RecordCost(ctx, ledger.CostInput{
		Category:    msg.Category,
		Description: msg.Description,
		AmountCents: msg.AmountCents,
		Currency:    msg.Currency,
		Recurring:   msg.Recurring,
		IncurredOn:  msg.IncurredOn,
		Metadata:    domain.JSONMap(msg.Metadata),
	})
	return err
}

// RecordSale is the payload for recording a sale entry.
type RecordSale struct {
	Channel     string         `json:"channel"`
	Description string         `json:"description"`
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	SoldOn      time.Time      `json:"sold_on"`
	Metadata    map[string]any `json:"metadata"`
}

type recordSaleCommand struct {
	svc ledgerService
}

func (c recordSaleCommand) Execute(ctx context.Context, msg RecordSale) error {
	_, err := c.svc.RecordSale(ctx, ledger.SaleInput{
		Channel:     msg.Channel,
		Description: msg.Description,
		AmountCents: msg.AmountCents,
		Currency:    msg.Currency,
		SoldOn:      msg.SoldOn,
		Metadata:    domain.JSONMap(msg.Metadata),
	})
	return err
}

// RecordLoanPayment is the payload for recording a loan payment.
type RecordLoanPayment struct {
	LoanName       string    `json:"loan_name"`
	PrincipalCents int64     `json:"principal_cents"`
	InterestCents  int64     `json:"interest_cents"`
	Currency       string    `json:"currency"`
	PaidOn         time.Time `json:"paid_on"`
}

type recordLoanPaymentCommand struct {
	svc loanService
}

func (c recordLoanPaymentCommand) Execute(ctx context.Context, msg RecordLoanPayment) error {
	_, err := c.svc.RecordPayment(ctx, loans.PaymentInput{
		LoanName:       msg.LoanName,
		PrincipalCents: msg.PrincipalCents,
		InterestCents:  msg.InterestCents,
		Currency:       msg.Currency,
		PaidOn:         msg.PaidOn,
	})
	return err
}

// UpsertFxRate is the payload for recording an exchange rate observation.
type UpsertFxRate struct {
	Base  string    `json:"base"`
	Quote string    `json:"quote"`
	Rate  float64   `json:"rate"`
	AsOf  time.Time `json:"as_of"`
}

type upsertFxRateCommand struct {
	svc fxService
}

func (c upsertFxRateCommand) Execute(ctx context.Context, msg UpsertFxRate) error {
	_, err := c.svc.RecordRate(ctx, msg.Base, msg.Quote, msg.Rate, msg.AsOf)
	return err
}

// SaveCredential stores an API key for the user and drops any cached
// resolution for that key in the user's session.
type SaveCredential struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	ServiceType string `json:"service_type"`
	KeyName     string `json:"key_name"`
	Value       string `json:"value"`
}

type saveCredentialCommand struct {
	svc      credentialService
	sessions sessionManager
}

func (c saveCredentialCommand) Execute(ctx context.Context, msg SaveCredential) error {
	if strings.TrimSpace(msg.Value) == "" {
		return errors.New("commands: credential value is required")
	}
	if err := c.svc.Save(ctx, msg.UserID, msg.ServiceType, msg.KeyName, []byte(msg.Value)); err != nil {
		return err
	}
	// The stored credential supersedes whatever the session resolved earlier.
	if msg.SessionID != "" {
		resolver, err := c.sessions.Resolver(msg.SessionID, msg.UserID)
		if err != nil {
			return err
		}
		resolver.Invalidate(msg.KeyName, "")
	}
	return nil
}

// InvalidateKeys drops cached key resolutions matching the given dimensions.
// An empty key name and service clears the session cache entirely.
type InvalidateKeys struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	KeyName   string `json:"key_name"`
	Service   string `json:"service"`
}

type invalidateKeysCommand struct {
	sessions sessionManager
	log      logger.Logger
}

func (c invalidateKeysCommand) Execute(ctx context.Context, msg InvalidateKeys) error {
	if strings.TrimSpace(msg.SessionID) == "" {
		return errors.New("commands: session id is required")
	}
	resolver, err := c.sessions.Resolver(msg.SessionID, msg.UserID)
	if err != nil {
		return err
	}
	dropped := resolver.Invalidate(msg.KeyName, keys.ServiceType(msg.Service))
	c.log.Debug("key cache invalidated",
		"session_id", msg.SessionID,
		"dropped", dropped,
	)
	return nil
}
