// Package session persists the bearer credential, the login name and the
// theme flag across runs.
package session

import (
	"context"
	"fmt"
	"path/filepath"
)

// KV is the key-value backend behind Store.
type KV interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by OpenKV.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// OpenKV opens the named backend under dir.
func OpenKV(ctx context.Context, backend, dir string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(filepath.Join(dir, "state.json")), nil
	case BackendSQLite:
		return OpenSQLiteKV(ctx, filepath.Join(dir, "state.db"))
	default:
		return nil, fmt.Errorf("session.OpenKV: unknown backend %q", backend)
	}
}
