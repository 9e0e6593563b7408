// Package store provides the shared expiring key-value store used for
// rate limiting, session state and read-through caching. The store is
// best-effort: on connection failure reads degrade to misses and writes
// to no-ops, so callers must never treat it as a source of truth.
package store

import (
	"context"
	"time"
)

// Key namespaces. Every consumer builds its keys through Key so
// distinct subsystems cannot collide.
const (
	NamespaceProperty        = "property"
	NamespaceTenant          = "tenant"
	NamespaceSession         = "session"
	NamespaceWhatsAppRate    = "whatsapp_rate"
	NamespaceAPIRate         = "api_rate"
	NamespaceInvoiceTemplate = "invoice_template"
)

func Key(namespace, id string) string {
	return namespace + ":" + id
}

// Store is the expiring key-value contract. All operations are atomic
// with respect to a single key.
type Store interface {
	// Set writes value under key with the given TTL. Returns false when
	// the store is unreachable.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool
	// Get returns the value for key, or ok=false on miss, expiry or
	// store failure.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Increment atomically increments the integer counter at key,
	// creating it at 1 when absent. The error is returned (not
	// swallowed) so rate limiting can fail open explicitly.
	Increment(ctx context.Context, key string) (int64, error)
	// Expire sets the TTL on an existing key. Returns false when the
	// key does not exist or the store is unreachable.
	Expire(ctx context.Context, key string, ttl time.Duration) bool
	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) bool
	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) bool
	// Ping reports store reachability.
	Ping(ctx context.Context) error
	Close() error
}
