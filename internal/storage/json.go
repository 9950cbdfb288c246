package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/example/conference-hub/internal/logging"
)

// ReadJSON decodes the blob stored under key into v. A missing key, a read
// failure or a corrupt blob all leave v untouched and return false: callers
// must treat corrupt data as absent, never propagate a parse error upward.
func ReadJSON(ctx context.Context, store Store, key string, v any) bool {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		readLogger(ctx).Debug("key-value read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		readLogger(ctx).Debug("discarding corrupt record", "key", key, "error", err)
		return false
	}
	return true
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(ctx context.Context, store Store, key string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(encoded))
}

func readLogger(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return slog.Default()
}
