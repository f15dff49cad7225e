// Package storage provides the device-local key-value capability the cart and
// the auth token are persisted in. It stands in for browser local storage.
package storage

import (
	"context"
	"strings"
)

// Well-known keys
const (
	CartKey  = "cart"
	TokenKey = "token"
)

// KeyValueStore is a durable string map owned by one device.
type KeyValueStore interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove is a no-op for absent keys.
	Remove(ctx context.Context, key string) error
}

// scoped prefixes every key so many devices can share one backend.
type scoped struct {
	prefix string
	next   KeyValueStore
}

// Scope returns a view of kv restricted to one device.
func Scope(kv KeyValueStore, device string) KeyValueStore {
	return &scoped{prefix: "device:" + strings.TrimSpace(device) + ":", next: kv}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.next.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.next.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.next.Remove(ctx, s.prefix+key)
}
