package storage

import (
	"context"
	"database/sql"

	bunrepo "github.com/goliatone/go-cashflow/internal/storage/bun"
	"github.com/goliatone/go-cashflow/internal/storage/memory"
	"github.com/goliatone/go-cashflow/pkg/credentials"
	"github.com/goliatone/go-cashflow/pkg/domain"
	iface "github.com/goliatone/go-cashflow/pkg/interfaces/credentials"
	"github.com/goliatone/go-cashflow/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes all repositories needed by services.
type Providers struct {
	Costs        store.CostRepository
	Sales        store.SaleRepository
	LoanPayments store.LoanPaymentRepository
	FxRates      store.FxRateRepository
	Credentials  iface.Store
	Transaction  store.TransactionManager
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders() Providers {
	return Providers{
		Costs:        memory.NewCostRepository(),
		Sales:        memory.NewSaleRepository(),
		LoanPayments: memory.NewLoanPaymentRepository(),
		FxRates:      memory.NewFxRateRepository(),
		Credentials:  credentials.NewMemoryStore(),
		Transaction:  &store.NopTransactionManager{},
	}
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller is responsible for creating the *bun.DB instance (potentially
// via go-persistence-bun) and managing its lifecycle.
func NewBunProviders(db *bun.DB) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(
		(*domain.CostEntry)(nil),
		(*domain.SaleEntry)(nil),
		(*domain.LoanPayment)(nil),
		(*domain.FxRate)(nil),
	)

	return Providers{
		Costs:        bunrepo.NewCostRepository(db),
		Sales:        bunrepo.NewSaleRepository(db),
		LoanPayments: bunrepo.NewLoanPaymentRepository(db),
		FxRates:      bunrepo.NewFxRateRepository(db),
		Credentials:  bunrepo.NewCredentialStore(db),
		Transaction:  &bunTxManager{db: db},
	}
}

type bunTxManager struct {
	db *bun.DB
}

func (m *bunTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx)
	})
}
