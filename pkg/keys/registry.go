package keys

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrServiceRegistered = errors.New("keys: service already registered")
	ErrInvalidService    = errors.New("keys: invalid service spec")
)

// ServiceSpec describes how one service's credentials are discovered at each
// tier. Aliases are checked in registration order.
type ServiceSpec struct {
	Description   string
	EnvAliases    []string
	SecretAliases []string
}

// TierInfo is one entry of the ordered source priority table.
type TierInfo struct {
	Source      Source
	Description string
}

// PriorityInfo is the read-only view consumers use to render configuration
// help: tiers in priority order plus the alias tables verbatim.
type PriorityInfo struct {
	Tiers         []TierInfo
	Services      []ServiceType
	EnvAliases    map[ServiceType][]string
	SecretAliases map[ServiceType][]string
}

// tierTable is static: database entries are explicit per-deployment
// overrides and always win, environment variables are operator configuration,
// platform secrets are the hosted default of last resort.
var tierTable = []TierInfo{
	{Source: SourceDatabase, Description: "credential store entries saved through the dashboard"},
	{Source: SourceEnvironment, Description: "process environment variables set at deploy time"},
	{Source: SourcePlatformSecrets, Description: "host-provided platform secret configuration"},
}

// Registry holds the service alias tables. Built-in services are seeded at
// construction; Register is the extension point for new integrations.
type Registry struct {
	mu       sync.RWMutex
	services map[ServiceType]ServiceSpec
}

// NewRegistry returns a registry seeded with the built-in services.
func NewRegistry() *Registry {
	r := &Registry{services: make(map[ServiceType]ServiceSpec)}
	r.services[ServiceStripe] = ServiceSpec{
		Description:   "Stripe payment processing",
		EnvAliases:    []string{"STRIPE_API_KEY", "STRIPE_SECRET_KEY"},
		SecretAliases: []string{"stripe_api_key", "stripe_secret_key"},
	}
	r.services[ServiceOpenAI] = ServiceSpec{
		Description:   "OpenAI API",
		EnvAliases:    []string{"OPENAI_API_KEY"},
		SecretAliases: []string{"openai_api_key"},
	}
	r.services[ServiceAnthropic] = ServiceSpec{
		Description:   "Anthropic API",
		EnvAliases:    []string{"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
		SecretAliases: []string{"anthropic_api_key"},
	}
	r.services[ServiceGoogleSheets] = ServiceSpec{
		Description:   "Google Sheets export",
		EnvAliases:    []string{"GOOGLE_SHEETS_API_KEY", "GSHEETS_API_KEY"},
		SecretAliases: []string{"google_sheets_api_key", "gsheets_api_key"},
	}
	r.services[ServiceExchangeRate] = ServiceSpec{
		Description:   "exchange rate feed",
		EnvAliases:    []string{"EXCHANGERATE_API_KEY", "FX_API_KEY"},
		SecretAliases: []string{"exchangerate_api_key"},
	}
	return r
}

// Register adds a new service. Registering an existing service is an error so
// built-in alias tables cannot be silently shadowed.
func (r *Registry) Register(service ServiceType, spec ServiceSpec) error {
	if strings.TrimSpace(string(service)) == "" {
		return ErrInvalidService
	}
	if len(spec.EnvAliases) == 0 && len(spec.SecretAliases) == 0 {
		return ErrInvalidService
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[service]; ok {
		return ErrServiceRegistered
	}
	r.services[service] = spec
	return nil
}

// Lookup returns the spec for a service.
func (r *Registry) Lookup(service ServiceType) (ServiceSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.services[service]
	return spec, ok
}

// Services returns the supported service identifiers, sorted.
func (r *Registry) Services() []ServiceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ServiceType, 0, len(r.services))
	for st := range r.services {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanonicalKeyName is the default lookup name for a service's API key.
func CanonicalKeyName(service ServiceType) string {
	return string(service) + "_api_key"
}

// PriorityInfo exposes the tier ordering and alias tables for configuration
// help screens.
func (r *Registry) PriorityInfo() PriorityInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info := PriorityInfo{
		Tiers:         append([]TierInfo(nil), tierTable...),
		EnvAliases:    make(map[ServiceType][]string, len(r.services)),
		SecretAliases: make(map[ServiceType][]string, len(r.services)),
	}
	for st, spec := range r.services {
		info.Services = append(info.Services, st)
		info.EnvAliases[st] = append([]string(nil), spec.EnvAliases...)
		info.SecretAliases[st] = append([]string(nil), spec.SecretAliases...)
	}
	sort.Slice(info.Services, func(i, j int) bool { return info.Services[i] < info.Services[j] })
	return info
}
