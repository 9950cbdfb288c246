package meeting

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/conference-hub/internal/storage"
)

// historyLimit bounds the log to the most recent joined meetings.
const historyLimit = 20

// HistoryLog keeps a bounded, most-recent-first record of joined meetings.
type HistoryLog struct {
	store  storage.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewHistoryLog wires the log to its backing store.
func NewHistoryLog(store storage.Store, now func() time.Time, logger *slog.Logger) *HistoryLog {
	if now == nil {
		now = time.Now
	}
	return &HistoryLog{store: store, now: now, logger: defaultLogger(logger)}
}

// Record stamps the entry with the current instant, prepends it and truncates
// the log to the newest entries.
func (l *HistoryLog) Record(ctx context.Context, entry HistoryEntry) error {
	entry.JoinedAt = l.now()

	var entries []HistoryEntry
	storage.ReadJSON(ctx, l.store, historyKey, &entries)

	entries = append([]HistoryEntry{entry}, entries...)
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}

	if err := storage.WriteJSON(ctx, l.store, historyKey, entries); err != nil {
		serviceLogger(ctx, l.logger, "history", "record", "room", entry.RoomName).Error("persist failed", "error", err)
		return err
	}
	return nil
}

// List returns the recorded entries, newest first.
func (l *HistoryLog) List(ctx context.Context) []HistoryEntry {
	var entries []HistoryEntry
	storage.ReadJSON(ctx, l.store, historyKey, &entries)
	return entries
}
