package meeting

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/conference-hub/internal/storage"
)

// analyticsLimit bounds the global event log to the most recent entries.
const analyticsLimit = 100

// AnalyticsLog keeps a bounded, locally persisted record of tracked events.
type AnalyticsLog struct {
	store  storage.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewAnalyticsLog wires the log to its backing store.
func NewAnalyticsLog(store storage.Store, now func() time.Time, logger *slog.Logger) *AnalyticsLog {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsLog{store: store, now: now, logger: defaultLogger(logger)}
}

// Track appends a stamped event, dropping the oldest once the limit is
// exceeded.
func (l *AnalyticsLog) Track(ctx context.Context, name string, payload map[string]any) error {
	event := AnalyticsEvent{Name: name, Payload: payload, At: l.now()}

	var events []AnalyticsEvent
	storage.ReadJSON(ctx, l.store, analyticsKey, &events)

	events = append(events, event)
	if len(events) > analyticsLimit {
		events = events[len(events)-analyticsLimit:]
	}

	if err := storage.WriteJSON(ctx, l.store, analyticsKey, events); err != nil {
		serviceLogger(ctx, l.logger, "analytics", "track", "event", name).Error("persist failed", "error", err)
		return err
	}

	serviceLogger(ctx, l.logger, "analytics", "track").Debug("event tracked", "event", name)
	return nil
}

// Events returns the tracked events in insertion order.
func (l *AnalyticsLog) Events(ctx context.Context) []AnalyticsEvent {
	var events []AnalyticsEvent
	storage.ReadJSON(ctx, l.store, analyticsKey, &events)
	return events
}
