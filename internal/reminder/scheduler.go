// Package reminder arms best-effort, in-process reminder timers for
// scheduled meetings. Timers are not persisted and do not survive a process
// restart; there is no re-arming sweep on startup.
package reminder

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/conference-hub/internal/meeting"
	"github.com/example/conference-hub/internal/notify"
)

// reminderTitle is the fixed notification title for every reminder.
const reminderTitle = "Meeting Reminder"

// offset describes one reminder lead time and its message template.
type offset struct {
	lead     time.Duration
	label    string
	template string
	enabled  func(meeting.ReminderFlags) bool
}

var offsets = []offset{
	{
		lead:     15 * time.Minute,
		label:    "15 minutes",
		template: "%q starts in 15 minutes!",
		enabled:  func(f meeting.ReminderFlags) bool { return f.FifteenMin },
	},
	{
		lead:     time.Hour,
		label:    "1 hour",
		template: "%q starts in 1 hour!",
		enabled:  func(f meeting.ReminderFlags) bool { return f.OneHour },
	},
	{
		lead:     24 * time.Hour,
		label:    "tomorrow",
		template: "%q is tomorrow!",
		enabled:  func(f meeting.ReminderFlags) bool { return f.OneDay },
	},
}

// Timer is the stoppable handle returned by the timer factory.
type Timer interface {
	Stop() bool
}

// TimerFactory arms a single-shot callback after the given delay.
type TimerFactory func(delay time.Duration, fn func()) Timer

func standardTimers(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, fn)
}

// Scheduler computes reminder fire instants and arms delayed notifications.
type Scheduler struct {
	mu       sync.Mutex
	notifier notify.Notifier
	now      func() time.Time
	after    TimerFactory
	armed    map[string][]Timer
	logger   *slog.Logger
}

// NewScheduler wires the scheduler. A nil after falls back to time.AfterFunc
// and a nil now to time.Now.
func NewScheduler(notifier notify.Notifier, now func() time.Time, after TimerFactory, logger *slog.Logger) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if after == nil {
		after = standardTimers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		notifier: notifier,
		now:      now,
		after:    after,
		armed:    make(map[string][]Timer),
		logger:   logger,
	}
}

// Arm schedules one timer per enabled reminder flag whose fire instant is
// strictly in the future. Fire instants already in the past are silently
// skipped, never fired immediately. Returns the number of timers armed.
func (s *Scheduler) Arm(m meeting.ScheduledMeeting) int {
	now := s.now()
	armed := 0

	for _, o := range offsets {
		if !o.enabled(m.Reminders) {
			continue
		}
		delay := m.Start.Add(-o.lead).Sub(now)
		if delay <= 0 {
			s.logger.Debug("reminder skipped", "meeting", m.ID, "offset", o.label)
			continue
		}

		body := fmt.Sprintf(o.template, m.Title)
		timer := s.after(delay, func() {
			s.notifier.Notify(reminderTitle, body)
		})

		s.mu.Lock()
		s.armed[m.ID] = append(s.armed[m.ID], timer)
		s.mu.Unlock()

		s.logger.Info("reminder armed", "meeting", m.ID, "offset", o.label, "fires_in", delay)
		armed++
	}

	return armed
}

// Disarm stops every pending timer for the given meeting id and reports how
// many were stopped. Deleting a meeting does not call this; armed reminders
// keep running unless a caller disarms them explicitly.
func (s *Scheduler) Disarm(meetingID string) int {
	s.mu.Lock()
	timers := s.armed[meetingID]
	delete(s.armed, meetingID)
	s.mu.Unlock()

	stopped := 0
	for _, t := range timers {
		if t.Stop() {
			stopped++
		}
	}
	return stopped
}

// Pending reports the number of timers currently tracked for a meeting.
func (s *Scheduler) Pending(meetingID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed[meetingID])
}
