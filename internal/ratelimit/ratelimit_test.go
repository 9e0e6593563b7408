package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"notify-gateway/internal/store"

	"github.com/rs/zerolog"
)

func TestCheckAllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(store.NewMemory(), zerolog.Nop())

	for i := 1; i <= 10; i++ {
		d := l.Check(ctx, store.NamespaceWhatsAppRate, "+1809555", 10, time.Hour)
		if !d.Allowed {
			t.Fatalf("call %d should be allowed", i)
		}
		if d.Count != int64(i) {
			t.Fatalf("call %d count = %d", i, d.Count)
		}
	}

	d := l.Check(ctx, store.NamespaceWhatsAppRate, "+1809555", 10, time.Hour)
	if d.Allowed {
		t.Fatalf("11th call should be denied")
	}
	if d.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", d.Remaining)
	}
}

func TestCheckIndependentIdentities(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(store.NewMemory(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		l.Check(ctx, store.NamespaceWhatsAppRate, "a", 3, time.Hour)
	}
	if l.Check(ctx, store.NamespaceWhatsAppRate, "a", 3, time.Hour).Allowed {
		t.Fatalf("identity a should be exhausted")
	}
	if !l.Check(ctx, store.NamespaceWhatsAppRate, "b", 3, time.Hour).Allowed {
		t.Fatalf("identity b should be unaffected")
	}
}

// failingStore simulates an unreachable backing store.
type failingStore struct {
	store.Store
}

func (failingStore) Increment(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestCheckFailsOpenOnStoreError(t *testing.T) {
	l := NewLimiter(failingStore{}, zerolog.Nop())

	d := l.Check(context.Background(), store.NamespaceWhatsAppRate, "x", 5, time.Hour)
	if !d.Allowed {
		t.Fatalf("store failure must fail open")
	}
	if !d.Degraded {
		t.Fatalf("degraded flag should mark fail-open decisions")
	}
}
