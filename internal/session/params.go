package session

import (
	"context"
	"fmt"
	"net/url"

	"github.com/example/conference-hub/internal/meeting"
)

// EntryParams are the join-form prefill values carried on an entry URL.
type EntryParams struct {
	Room        string
	DisplayName string
	// NeedsPassword reports whether a password is registered for the room,
	// so the caller can focus the password field.
	NeedsPassword bool
}

// ParseEntryParams extracts the room and name query parameters from an entry
// URL and checks the credential registry for a registered password.
func ParseEntryParams(ctx context.Context, rawURL string, credentials *meeting.CredentialRegistry) (EntryParams, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return EntryParams{}, fmt.Errorf("parse entry url: %w", err)
	}

	query := parsed.Query()
	params := EntryParams{
		Room:        query.Get("room"),
		DisplayName: query.Get("name"),
	}

	if params.Room != "" && credentials != nil {
		_, params.NeedsPassword = credentials.Password(ctx, params.Room)
	}

	return params, nil
}
