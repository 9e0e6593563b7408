package store

import (
	"context"
	"encoding/json"
	"time"
)

// Remember is a read-through cache helper: it returns the cached value
// for key, or runs fill, caches the JSON-encoded result with the given
// TTL and returns it. Store failures fall through to fill; a fill error
// is returned to the caller without caching.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, fill func(context.Context) (T, error)) (T, error) {
	var out T
	if raw, ok := s.Get(ctx, key); ok {
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		// Corrupt entry, drop it and refill.
		s.Delete(ctx, key)
	}

	out, err := fill(ctx)
	if err != nil {
		return out, err
	}
	if raw, err := json.Marshal(out); err == nil {
		s.Set(ctx, key, raw, ttl)
	}
	return out, nil
}

// Session stores opaque session payloads with sliding expiration: every
// successful read extends the TTL by the session window.
type Session struct {
	store  Store
	window time.Duration
}

func NewSession(s Store, window time.Duration) *Session {
	return &Session{store: s, window: window}
}

func (s *Session) Put(ctx context.Context, id string, payload []byte) bool {
	return s.store.Set(ctx, Key(NamespaceSession, id), payload, s.window)
}

func (s *Session) Get(ctx context.Context, id string) ([]byte, bool) {
	key := Key(NamespaceSession, id)
	payload, ok := s.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	s.store.Expire(ctx, key, s.window)
	return payload, true
}

func (s *Session) Drop(ctx context.Context, id string) {
	s.store.Delete(ctx, Key(NamespaceSession, id))
}
