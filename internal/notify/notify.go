// Package notify models the local notification boundary: permission is
// requested once per process, best-effort and deferred, and notifications
// silently no-op when permission is denied.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Notifier delivers a local title+body notification.
type Notifier interface {
	Notify(title, body string)
}

// LogNotifier delivers notifications to the structured log. It stands in for
// a desktop notification daemon in headless environments.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(title, body string) {
	n.logger.Info("notification", "title", title, "body", body)
}

// PermissionFunc asks the user for notification permission and reports the
// outcome. It is invoked at most once per GatedNotifier.
type PermissionFunc func() bool

// GatedNotifier wraps another notifier behind a one-shot permission request.
// Until permission is requested and granted, Notify is a no-op.
type GatedNotifier struct {
	mu        sync.Mutex
	next      Notifier
	request   PermissionFunc
	requested bool
	granted   bool
}

// NewGatedNotifier wraps next behind the supplied permission request.
func NewGatedNotifier(next Notifier, request PermissionFunc) *GatedNotifier {
	return &GatedNotifier{next: next, request: request}
}

// RequestPermissionAfter schedules the one-shot permission request to run
// after delay, mirroring the deferred prompt shown a few seconds after page
// load. The returned timer may be stopped to cancel the request.
func (g *GatedNotifier) RequestPermissionAfter(delay time.Duration) *time.Timer {
	return time.AfterFunc(delay, g.RequestPermission)
}

// RequestPermission runs the permission request once; later calls are no-ops.
func (g *GatedNotifier) RequestPermission() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.requested {
		return
	}
	g.requested = true
	if g.request != nil {
		g.granted = g.request()
	}
}

// Granted reports whether permission has been requested and granted.
func (g *GatedNotifier) Granted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.granted
}

// Notify delivers the notification when permission was granted and drops it
// otherwise.
func (g *GatedNotifier) Notify(title, body string) {
	if !g.Granted() {
		return
	}
	g.next.Notify(title, body)
}
