package meeting

import (
	"context"
	"log/slog"

	"github.com/example/conference-hub/internal/storage"
)

// chatLimit bounds each room transcript to the most recent messages.
const chatLimit = 100

// TranscriptStore keeps a bounded append-only chat log per room.
type TranscriptStore struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTranscriptStore wires the store to its backing key-value store.
func NewTranscriptStore(store storage.Store, logger *slog.Logger) *TranscriptStore {
	return &TranscriptStore{store: store, logger: defaultLogger(logger)}
}

// Append adds msg to the room transcript, dropping the oldest messages once
// the limit is exceeded. Truncation is by insertion order, not timestamp.
func (t *TranscriptStore) Append(ctx context.Context, room string, msg ChatMessage) error {
	var messages []ChatMessage
	storage.ReadJSON(ctx, t.store, chatKey(room), &messages)

	messages = append(messages, msg)
	if len(messages) > chatLimit {
		messages = messages[len(messages)-chatLimit:]
	}

	if err := storage.WriteJSON(ctx, t.store, chatKey(room), messages); err != nil {
		serviceLogger(ctx, t.logger, "chat", "append", "room", room).Error("persist failed", "error", err)
		return err
	}
	return nil
}

// List returns the transcript for room in insertion order.
func (t *TranscriptStore) List(ctx context.Context, room string) []ChatMessage {
	var messages []ChatMessage
	storage.ReadJSON(ctx, t.store, chatKey(room), &messages)
	return messages
}
