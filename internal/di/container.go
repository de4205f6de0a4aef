package di

import (
	"crypto/rand"
	"reflect"

	i18n "github.com/goliatone/go-i18n"

	"github.com/goliatone/go-cashflow/internal/alerts"
	"github.com/goliatone/go-cashflow/internal/forecast"
	"github.com/goliatone/go-cashflow/internal/fx"
	"github.com/goliatone/go-cashflow/internal/ledger"
	"github.com/goliatone/go-cashflow/internal/loans"
	"github.com/goliatone/go-cashflow/pkg/commands"
	"github.com/goliatone/go-cashflow/pkg/config"
	"github.com/goliatone/go-cashflow/pkg/credentials"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
	"github.com/goliatone/go-cashflow/pkg/keys"
	"github.com/goliatone/go-cashflow/pkg/settings"
	"github.com/goliatone/go-cashflow/pkg/storage"
)

// Options configure the DI container.
type Options struct {
	Config     config.Config
	Storage    storage.Providers
	Logger     logger.Logger
	Env        keys.ValueReader
	Platform   keys.ValueReader
	Registry   *keys.Registry
	Mailer     alerts.Mailer
	Translator i18n.Translator
}

// Container wires storage, services, the key manager, and commands.
type Container struct {
	Config      config.Config
	Storage     storage.Providers
	Credentials *credentials.EncryptedStore
	Keys        *keys.Manager
	Ledger      *ledger.Service
	Loans       *loans.Service
	Fx          *fx.Service
	Forecast    *forecast.Service
	Settings    *settings.Service
	Alerts      *alerts.Service
	Commands    *commands.Registry
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers := opts.Storage
	if providers.Costs == nil {
		providers = storage.NewMemoryProviders()
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	encKey := []byte(cfg.Credentials.EncryptionKey)
	if len(encKey) == 0 {
		// Ephemeral key: stored credentials do not survive a restart.
		encKey = make([]byte, 32)
		if _, err := rand.Read(encKey); err != nil {
			return nil, err
		}
		lgr.Warn("credentials.encryption_key unset, using ephemeral key")
	}
	credStore, err := credentials.NewEncryptedStore(providers.Credentials, encKey)
	if err != nil {
		return nil, err
	}

	registry := opts.Registry
	if registry == nil {
		registry = keys.NewRegistry()
	}
	env := opts.Env
	if env == nil {
		env = keys.OSEnv{}
	}
	platform := opts.Platform
	if platform == nil {
		secrets, err := keys.LoadSecretsFile(cfg.Keys.PlatformSecrets)
		if err != nil {
			return nil, err
		}
		platform = secrets
	}
	keyManager := keys.NewManager(keys.ManagerDeps{
		Registry:    registry,
		Store:       credStore,
		Env:         env,
		Platform:    platform,
		Logger:      lgr,
		MaxSessions: cfg.Keys.MaxSessions,
	})

	ledgerSvc, err := ledger.New(ledger.Dependencies{
		Costs:  providers.Costs,
		Sales:  providers.Sales,
		Logger: lgr,
	})
	if err != nil {
		return nil, err
	}

	loanSvc, err := loans.New(loans.Dependencies{
		Payments: providers.LoanPayments,
		Logger:   lgr,
	})
	if err != nil {
		return nil, err
	}

	fxSvc, err := fx.New(fx.Dependencies{
		Rates:  providers.FxRates,
		MaxAge: cfg.Dashboard.FxMaxAge,
		Logger: lgr,
	})
	if err != nil {
		return nil, err
	}

	forecastSvc, err := forecast.New(forecast.Dependencies{
		Costs:  providers.Costs,
		Sales:  providers.Sales,
		Logger: lgr,
	})
	if err != nil {
		return nil, err
	}

	settingsSvc := settings.New(settings.Dependencies{
		Config: &cfg,
		Logger: lgr,
	})

	var alertSvc *alerts.Service
	if cfg.Alerts.Enabled || opts.Mailer != nil {
		mailer := opts.Mailer
		if mailer == nil {
			mailer = alerts.NewSESMailer(alerts.MailerConfig{
				From:   cfg.Alerts.From,
				Region: cfg.Alerts.Region,
				DryRun: cfg.Alerts.DryRun,
			}, lgr)
		}
		alertSvc, err = alerts.New(alerts.Dependencies{
			Mailer:         mailer,
			Translator:     opts.Translator,
			ThresholdCents: cfg.Alerts.ThresholdCents,
			Logger:         lgr,
		})
		if err != nil {
			return nil, err
		}
	}

	cmdRegistry, err := commands.New(commands.Dependencies{
		Ledger:      ledgerSvc,
		Loans:       loanSvc,
		Fx:          fxSvc,
		Credentials: credStore,
		Sessions:    keyManager,
		Logger:      lgr,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:      cfg,
		Storage:     providers,
		Credentials: credStore,
		Keys:        keyManager,
		Ledger:      ledgerSvc,
		Loans:       loanSvc,
		Fx:          fxSvc,
		Forecast:    forecastSvc,
		Settings:    settingsSvc,
		Alerts:      alertSvc,
		Commands:    cmdRegistry,
	}, nil
}
