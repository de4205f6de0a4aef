package keys

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestManagerReusesResolverWithinSession(t *testing.T) {
	m := NewManager(ManagerDeps{Env: MapSecrets{"STRIPE_API_KEY": "sk_reuse"}})

	first, err := m.Resolver("sess-1", "user-1")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	second, err := m.Resolver("sess-1", "user-1")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same resolver instance within a session")
	}
	if m.Sessions() != 1 {
		t.Fatalf("expected one live resolver, got %d", m.Sessions())
	}
}

func TestManagerEvictDropsSessionCache(t *testing.T) {
	env := MapSecrets{"STRIPE_API_KEY": "sk_before"}
	m := NewManager(ManagerDeps{Env: env})
	ctx := context.Background()

	r, err := m.Resolver("sess-1", "user-1")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	r.Resolve(ctx, "stripe_api_key", ServiceStripe)

	env["STRIPE_API_KEY"] = "sk_after"

	if evicted := m.Evict("sess-1"); evicted != 1 {
		t.Fatalf("expected one resolver evicted, got %d", evicted)
	}

	fresh, err := m.Resolver("sess-1", "user-1")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	result := fresh.Resolve(ctx, "stripe_api_key", ServiceStripe)
	if result.Value != "sk_after" {
		t.Fatalf("expected new resolver to re-query sources, got %q", result.Value)
	}
}

func TestManagerBoundsSessions(t *testing.T) {
	m := NewManager(ManagerDeps{MaxSessions: 2, Env: MapSecrets{}})
	now := time.Unix(0, 0)
	m.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	for i := 0; i < 3; i++ {
		if _, err := m.Resolver(fmt.Sprintf("sess-%d", i), "user-1"); err != nil {
			t.Fatalf("resolver %d: %v", i, err)
		}
	}
	if m.Sessions() != 2 {
		t.Fatalf("expected LRU bound of 2, got %d", m.Sessions())
	}
	// sess-0 was least recently used and should be gone.
	m.mu.Lock()
	_, ok := m.resolvers[sessionKey{SessionID: "sess-0", UserID: "user-1"}]
	m.mu.Unlock()
	if ok {
		t.Fatalf("expected oldest session evicted")
	}
}
