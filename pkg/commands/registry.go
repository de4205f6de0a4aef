package commands

import (
	command "github.com/goliatone/go-command"

	internalcommands "github.com/goliatone/go-cashflow/internal/commands"
	"github.com/goliatone/go-cashflow/internal/fx"
	"github.com/goliatone/go-cashflow/internal/ledger"
	"github.com/goliatone/go-cashflow/internal/loans"
	"github.com/goliatone/go-cashflow/pkg/credentials"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/keys"
)

// Re-export request types so consumers need not import internal packages.
type (
	RecordCost        = internalcommands.RecordCost
	RecordSale        = internalcommands.RecordSale
	RecordLoanPayment = internalcommands.RecordLoanPayment
	UpsertFxRate      = internalcommands.UpsertFxRate
	SaveCredential    = internalcommands.SaveCredential
	InvalidateKeys    = internalcommands.InvalidateKeys
)

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog           *internalcommands.Catalog
	RecordCost        command.Commander[RecordCost]
	RecordSale        command.Commander[RecordSale]
	RecordLoanPayment command.Commander[RecordLoanPayment]
	UpsertFxRate      command.Commander[UpsertFxRate]
	SaveCredential    command.Commander[SaveCredential]
	InvalidateKeys    command.Commander[InvalidateKeys]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Ledger      *ledger.Service
	Loans       *loans.Service
	Fx          *fx.Service
	Credentials *credentials.EncryptedStore
	Sessions    *keys.Manager
	Logger      logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Ledger:      deps.Ledger,
		Loans:       deps.Loans,
		Fx:          deps.Fx,
		Credentials: deps.Credentials,
		Sessions:    deps.Sessions,
		Logger:      deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:           catalog,
		RecordCost:        catalog.RecordCost,
		RecordSale:        catalog.RecordSale,
		RecordLoanPayment: catalog.RecordLoanPayment,
		UpsertFxRate:      catalog.UpsertFxRate,
		SaveCredential:    catalog.SaveCredential,
		InvalidateKeys:    catalog.InvalidateKeys,
	}, nil
}

// Commanders returns every handler so callers can register them with
// go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.RecordCost,
		r.RecordSale,
		r.RecordLoanPayment,
		r.UpsertFxRate,
		r.SaveCredential,
		r.InvalidateKeys,
	}
}
