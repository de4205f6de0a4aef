package settings

import (
	opts "github.com/goliatone/go-options"

	"github.com/goliatone/go-cashflow/pkg/config"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
)

// Well-known setting paths.
const (
	PathCurrency        = "dashboard.currency"
	PathForecastMonths  = "dashboard.forecast_months"
	PathAlertsEnabled   = "alerts.enabled"
	PathAlertsThreshold = "alerts.threshold_cents"
)

// Service layers system defaults under per-user overrides so every setting
// can be traced back to the scope that supplied it.
type Service struct {
	defaults map[string]any
	log      logger.Logger
}

// Dependencies wires configuration and logging into the service.
type Dependencies struct {
	Config *config.Config
	Logger logger.Logger
}

// New builds the service seeding the system scope from application config.
func New(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	defaults := map[string]any{
		"dashboard": map[string]any{
			"currency":        "USD",
			"forecast_months": 6,
		},
		"alerts": map[string]any{
			"enabled":         false,
			"threshold_cents": int64(0),
		},
	}
	if cfg := deps.Config; cfg != nil {
		defaults["dashboard"] = map[string]any{
			"currency":        cfg.Dashboard.Currency,
			"forecast_months": cfg.Dashboard.ForecastMonths,
		}
		defaults["alerts"] = map[string]any{
			"enabled":         cfg.Alerts.Enabled,
			"threshold_cents": cfg.Alerts.ThresholdCents,
		}
	}
	return &Service{defaults: defaults, log: deps.Logger}
}

// ForUser merges the system defaults with the given user overrides. A nil or
// empty override map yields the defaults unchanged.
func (s *Service) ForUser(userID string, overrides map[string]any) (*Resolver, error) {
	system := opts.NewScope("system", opts.ScopePrioritySystem, opts.WithScopeLabel("System"))
	snapshots := []Snapshot{{Scope: system, Data: s.defaults}}
	if len(overrides) > 0 {
		user := opts.NewScope("user", opts.ScopePriorityUser, opts.WithScopeLabel("User"))
		snapshots = append(snapshots, Snapshot{
			Scope:      user,
			Data:       overrides,
			SnapshotID: userID,
		})
	}
	resolver, err := NewResolver(snapshots...)
	if err != nil {
		return nil, err
	}
	s.log.Debug("settings resolved", "user_id", userID, "overrides", len(overrides))
	return resolver, nil
}
