package meeting

import (
	"context"
	"log/slog"
	"strings"

	"github.com/example/conference-hub/internal/storage"
)

// CredentialRegistry maps room names to their passwords. One password per
// room, last write wins. Passwords are stored and compared in clear text:
// this is a usability gate for casual rooms, not a security boundary.
type CredentialRegistry struct {
	store  storage.Store
	logger *slog.Logger
}

// NewCredentialRegistry wires the registry to its backing store.
func NewCredentialRegistry(store storage.Store, logger *slog.Logger) *CredentialRegistry {
	return &CredentialRegistry{store: store, logger: defaultLogger(logger)}
}

// SetPassword upserts the password for room. An empty password is a no-op;
// clearing a password is not supported, matching the join-form behavior.
func (r *CredentialRegistry) SetPassword(ctx context.Context, room, password string) error {
	if strings.TrimSpace(password) == "" {
		return nil
	}

	passwords := make(map[string]string)
	storage.ReadJSON(ctx, r.store, passwordsKey, &passwords)
	passwords[room] = password

	if err := storage.WriteJSON(ctx, r.store, passwordsKey, passwords); err != nil {
		serviceLogger(ctx, r.logger, "credentials", "set_password", "room", room).Error("persist failed", "error", err)
		return err
	}
	return nil
}

// Password returns the registered password for room, if any.
func (r *CredentialRegistry) Password(ctx context.Context, room string) (string, bool) {
	passwords := make(map[string]string)
	if !storage.ReadJSON(ctx, r.store, passwordsKey, &passwords) {
		return "", false
	}
	password, ok := passwords[room]
	if !ok || password == "" {
		return "", false
	}
	return password, true
}

// Verify reports whether supplied grants access to room. Open rooms (no
// registered password) always verify; otherwise the comparison is byte-exact
// and case-sensitive.
func (r *CredentialRegistry) Verify(ctx context.Context, room, supplied string) bool {
	stored, ok := r.Password(ctx, room)
	if !ok {
		return true
	}
	return stored == supplied
}
