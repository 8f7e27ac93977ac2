// Package kvstore provides the key-value stores configuration documents are
// persisted in.
package kvstore

import (
	"context"
	"errors"
)

// Store is a string key-value store. Get reports absent keys with ok=false
// and a nil error. Set overwrites any previous value.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("kvstore: store is closed")

// Prefixed namespaces every key of an underlying store.
type Prefixed struct {
	store  Store
	prefix string
}

func WithPrefix(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &Prefixed{store: store, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Close() error { return p.store.Close() }
