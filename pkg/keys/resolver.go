package keys

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-cashflow/pkg/credentials"
	"github.com/goliatone/go-cashflow/pkg/interfaces/logger"
)

// CredentialStore is the database tier collaborator. Retrieval is scoped:
// the store zeroes the plaintext handle once fn returns, so implementations
// of fn must copy what they need. Absence is signaled with
// credentials.ErrNotFound, never a panic.
type CredentialStore interface {
	WithSecret(ctx context.Context, userID, keyName string, fn func(credentials.Value) error) error
}

var (
	errSessionRequired = errors.New("keys: session id is required")
	// errServiceMismatch marks a database hit registered under the same key
	// name but a different service: a name collision, treated as a miss.
	errServiceMismatch = errors.New("keys: service type mismatch")
)

// Dependencies wires collaborators into a Resolver.
type Dependencies struct {
	SessionID string
	UserID    string
	Registry  *Registry
	Store     CredentialStore
	Env       ValueReader
	Platform  ValueReader
	Logger    logger.Logger
}

// Resolver resolves named credentials for one session by checking sources in
// a fixed priority order: database, environment, platform secrets. Results
// are cached per (key name, service) pair for the lifetime of the session;
// cache entries are trusted until explicitly invalidated.
type Resolver struct {
	sessionID string
	userID    string
	registry  *Registry
	store     CredentialStore
	env       ValueReader
	platform  ValueReader
	log       logger.Logger

	mu    sync.Mutex
	cache map[cacheKey]ResolvedKey
}

// New constructs a resolver for one (session, user) pair. A nil Store is
// non-fatal: the resolver degrades to environment and platform resolution.
func New(deps Dependencies) (*Resolver, error) {
	if strings.TrimSpace(deps.SessionID) == "" {
		return nil, errSessionRequired
	}
	if deps.Registry == nil {
		deps.Registry = NewRegistry()
	}
	if deps.Env == nil {
		deps.Env = OSEnv{}
	}
	if deps.Platform == nil {
		deps.Platform = MapSecrets{}
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	r := &Resolver{
		sessionID: deps.SessionID,
		userID:    deps.UserID,
		registry:  deps.Registry,
		store:     deps.Store,
		env:       deps.Env,
		platform:  deps.Platform,
		log:       deps.Logger.WithFields(map[string]any{"session_id": deps.SessionID}),
	}
	if r.store == nil {
		r.log.Warn("credential store unavailable, database tier disabled")
	}
	return r, nil
}

// SessionID returns the session this resolver is scoped to.
func (r *Resolver) SessionID() string { return r.sessionID }

// UserID returns the user this resolver is scoped to.
func (r *Resolver) UserID() string { return r.userID }

// Registry exposes the service table for configuration help screens.
func (r *Resolver) Registry() *Registry { return r.registry }

// Resolve looks up the credential, serving and populating the session cache.
// Absence is encoded in the result, never returned as an error.
func (r *Resolver) Resolve(ctx context.Context, keyName string, service ServiceType) ResolvedKey {
	key := cacheKey{KeyName: keyName, Service: service}

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	result := r.resolve(ctx, keyName, service)

	r.mu.Lock()
	if r.cache == nil {
		r.cache = make(map[cacheKey]ResolvedKey)
	}
	r.cache[key] = result
	r.mu.Unlock()

	return result
}

// ResolveFresh bypasses the cache in both directions: sources are queried
// and the result is not stored.
func (r *Resolver) ResolveFresh(ctx context.Context, keyName string, service ServiceType) ResolvedKey {
	return r.resolve(ctx, keyName, service)
}

// ResolveAll resolves each service through its canonical key name. Partial
// results are expected when only some services are configured.
func (r *Resolver) ResolveAll(ctx context.Context, services ...ServiceType) map[ServiceType]ResolvedKey {
	if len(services) == 0 {
		services = r.registry.Services()
	}
	out := make(map[ServiceType]ResolvedKey, len(services))
	for _, service := range services {
		out[service] = r.Resolve(ctx, CanonicalKeyName(service), service)
	}
	return out
}

// Invalidate removes cache entries and returns how many were dropped. With
// both arguments zero the whole cache is cleared; with both set exactly one
// entry is removed; with one set every entry matching that dimension is
// removed. Matching is exact per dimension, never substring.
func (r *Resolver) Invalidate(keyName string, service ServiceType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if keyName == "" && service == "" {
		count := len(r.cache)
		r.cache = nil
		return count
	}

	count := 0
	for key := range r.cache {
		if keyName != "" && key.KeyName != keyName {
			continue
		}
		if service != "" && key.Service != service {
			continue
		}
		delete(r.cache, key)
		count++
	}
	return count
}

func (r *Resolver) cacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// resolve queries the tiers strictly in priority order, short-circuiting on
// the first hit. A partially configured service resolves entirely from one
// tier so provenance stays unambiguous.
func (r *Resolver) resolve(ctx context.Context, keyName string, service ServiceType) ResolvedKey {
	if strings.TrimSpace(keyName) == "" || strings.TrimSpace(string(service)) == "" {
		return notFound(keyName, service, "key name and service type are required")
	}

	spec, ok := r.registry.Lookup(service)
	if !ok {
		return notFound(keyName, service, fmt.Sprintf("unsupported service type %q", service))
	}

	if result, ok := r.fromStore(ctx, keyName, service); ok {
		return result
	}
	if result, ok := r.fromReader(r.env, spec.EnvAliases, keyName, service, SourceEnvironment); ok {
		return result
	}
	if result, ok := r.fromReader(r.platform, spec.SecretAliases, keyName, service, SourcePlatformSecrets); ok {
		return result
	}

	return notFound(keyName, service, fmt.Sprintf("no credential found for service %q in any source", service))
}

func (r *Resolver) fromStore(ctx context.Context, keyName string, service ServiceType) (ResolvedKey, bool) {
	if r.store == nil {
		return ResolvedKey{}, false
	}
	var value string
	err := r.store.WithSecret(ctx, r.userID, keyName, func(v credentials.Value) error {
		if v.ServiceType != string(service) {
			return errServiceMismatch
		}
		// Copy before the store zeroes its handle.
		value = string(v.Data)
		return nil
	})
	switch {
	case err == nil:
		result := newResolvedKey(keyName, service, value, SourceDatabase)
		r.log.Debug("resolved from credential store", "key_name", keyName, "service", service, "value", result.MaskedValue)
		return result, true
	case errors.Is(err, credentials.ErrNotFound):
		return ResolvedKey{}, false
	case errors.Is(err, errServiceMismatch):
		r.log.Debug("credential store name collision", "key_name", keyName, "service", service)
		return ResolvedKey{}, false
	default:
		// Infrastructure failure: drop the tier for this call, fail open.
		r.log.Warn("credential store lookup failed, skipping database tier", "key_name", keyName, "error", err)
		return ResolvedKey{}, false
	}
}

func (r *Resolver) fromReader(reader ValueReader, aliases []string, keyName string, service ServiceType, source Source) (ResolvedKey, bool) {
	if reader == nil {
		return ResolvedKey{}, false
	}
	for _, alias := range aliases {
		if value := strings.TrimSpace(reader.Lookup(alias)); value != "" {
			result := newResolvedKey(keyName, service, value, source)
			r.log.Debug("resolved credential", "key_name", keyName, "service", service, "source", source, "alias", alias, "value", result.MaskedValue)
			return result, true
		}
	}
	return ResolvedKey{}, false
}
