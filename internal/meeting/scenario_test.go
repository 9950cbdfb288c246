package meeting_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/conference-hub/internal/meeting"
	"github.com/example/conference-hub/internal/reminder"
	"github.com/example/conference-hub/internal/storage"
	"github.com/example/conference-hub/internal/testfixtures"
)

type capturedNotification struct {
	title string
	body  string
}

type captureNotifier struct {
	sent []capturedNotification
}

func (n *captureNotifier) Notify(title, body string) {
	n.sent = append(n.sent, capturedNotification{title: title, body: body})
}

// Schedules a meeting two days out with the day-before reminder enabled and
// walks the full path: creation, arming, registry listing and the fired
// notification body.
func TestScheduleWithDayBeforeReminder(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clock := testfixtures.NewClock(time.Time{})
	notifier := &captureNotifier{}
	timers := testfixtures.NewTimerRecorder()

	scheduler := reminder.NewScheduler(notifier, clock.NowFunc(), func(delay time.Duration, fn func()) reminder.Timer {
		return timers.Create(delay, fn)
	}, nil)

	credentials := meeting.NewCredentialRegistry(store, nil)
	ids := testfixtures.NewIDGenerator("standup-1")
	service := meeting.NewScheduleService(store, credentials, scheduler, "https://hub.example.com", ids.Next, clock.NowFunc(), nil)

	start := clock.Current().Add(48 * time.Hour)
	created, err := service.Create(ctx, meeting.ScheduleInput{
		Title:    "Standup",
		RoomName: "alpha-team",
		Start:    start,
		Reminders: meeting.ReminderFlags{
			OneDay: true,
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if !strings.Contains(created.JoinLink, "room=alpha-team") {
		t.Errorf("join link missing room parameter: %s", created.JoinLink)
	}

	if timers.Armed() != 1 {
		t.Fatalf("expected one armed reminder, got %d", timers.Armed())
	}
	if got := timers.Timers[0].Delay; got != 24*time.Hour {
		t.Errorf("day-before reminder delay = %s, want 24h", got)
	}

	upcoming, err := service.ListUpcoming(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != created.ID {
		t.Fatalf("registry should list the scheduled meeting, got %+v", upcoming)
	}

	timers.Timers[0].Fire()
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}
	if notifier.sent[0].body != `"Standup" is tomorrow!` {
		t.Errorf("unexpected reminder body: %s", notifier.sent[0].body)
	}
	if scheduler.Pending(created.ID) != 1 {
		t.Errorf("fired timers stay tracked until disarmed, pending = %d", scheduler.Pending(created.ID))
	}
}

// Deleting a meeting leaves already-armed reminders running; only an explicit
// disarm stops them.
func TestDeleteLeavesRemindersArmed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clock := testfixtures.NewClock(time.Time{})
	notifier := &captureNotifier{}
	timers := testfixtures.NewTimerRecorder()

	scheduler := reminder.NewScheduler(notifier, clock.NowFunc(), func(delay time.Duration, fn func()) reminder.Timer {
		return timers.Create(delay, fn)
	}, nil)

	service := meeting.NewScheduleService(store, nil, scheduler, "https://hub.example.com", nil, clock.NowFunc(), nil)

	created, err := service.Create(ctx, meeting.ScheduleInput{
		Title:     "Review",
		RoomName:  "beta-team",
		Start:     clock.Current().Add(2 * time.Hour),
		Reminders: meeting.ReminderFlags{FifteenMin: true, OneHour: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if timers.Armed() != 2 {
		t.Fatalf("expected two armed reminders, got %d", timers.Armed())
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	if scheduler.Pending(created.ID) != 2 {
		t.Errorf("delete must not disarm reminders, pending = %d", scheduler.Pending(created.ID))
	}

	timers.Timers[1].Fire()
	if len(notifier.sent) != 1 {
		t.Fatalf("reminder for a deleted meeting still fires, got %d notifications", len(notifier.sent))
	}
	if notifier.sent[0].body != `"Review" starts in 1 hour!` {
		t.Errorf("unexpected reminder body: %s", notifier.sent[0].body)
	}

	if stopped := scheduler.Disarm(created.ID); stopped != 1 {
		t.Errorf("explicit disarm should stop the one unfired timer, stopped %d", stopped)
	}
}
