package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value. Callers treat it
// as "no saved data", never as a failure worth propagating.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence port for document-style data: the quadra
// snapshot and per-quadra property overrides. Writes are best-effort;
// there is no transactionality across keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
