package keys

import "context"

// WithKey resolves the credential and hands fn an exclusively owned copy of
// the result. The copy's value is scrubbed on every exit path, including
// panic, so the raw secret does not outlive the call site. The session cache
// keeps its own independent copy; scrubbing here does not affect it.
func (r *Resolver) WithKey(ctx context.Context, keyName string, service ServiceType, fn func(*ResolvedKey) error) error {
	guarded := r.Resolve(ctx, keyName, service)
	defer guarded.scrub()
	return fn(&guarded)
}

// WithFreshKey is WithKey without cache participation.
func (r *Resolver) WithFreshKey(ctx context.Context, keyName string, service ServiceType, fn func(*ResolvedKey) error) error {
	guarded := r.ResolveFresh(ctx, keyName, service)
	defer guarded.scrub()
	return fn(&guarded)
}
