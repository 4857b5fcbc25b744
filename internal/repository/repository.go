// Package repository defines the durable record store the core persists to.
//
// The store is a flat namespace of string keys holding JSON documents. The
// session and favourites services never share a key: the namespace is
// partitioned into KeyUser, KeyAuthToken, KeyRegisteredUsers and one
// FavouritesKey per identity.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Durable storage keys.
const (
	KeyUser            = "user"
	KeyAuthToken       = "authToken"
	KeyRegisteredUsers = "registeredUsers"
	favouritesPrefix   = "favourites_"
)

// FavouritesKey returns the key holding the favourites of one identity.
func FavouritesKey(identity string) string {
	return favouritesPrefix + identity
}

// RecordStore is a durable key-value store of JSON blobs.
//
// Get reports found=false (and a nil error) when the key does not exist.
// Delete of a missing key is not an error.
type RecordStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON reads key and decodes it into dst.
// It returns found=false without touching dst when the key is absent.
func GetJSON(ctx context.Context, store RecordStore, key string, dst any) (bool, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("repository: decoding %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, store RecordStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("repository: encoding %q: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}
