package reminder

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/conference-hub/internal/meeting"
	"github.com/example/conference-hub/internal/testfixtures"
)

type notifierStub struct {
	mu    sync.Mutex
	calls []string
}

func (n *notifierStub) Notify(title, body string) {
	n.mu.Lock()
	n.calls = append(n.calls, title+": "+body)
	n.mu.Unlock()
}

func (n *notifierStub) bodies() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	copy(out, n.calls)
	return out
}

func newTestScheduler(clock *testfixtures.Clock, recorder *testfixtures.TimerRecorder, notifier *notifierStub) *Scheduler {
	factory := func(delay time.Duration, fn func()) Timer {
		return recorder.Create(delay, fn)
	}
	return NewScheduler(notifier, clock.NowFunc(), factory, nil)
}

func TestArmSkipsPastFireInstants(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	recorder := testfixtures.NewTimerRecorder()
	notifier := &notifierStub{}
	scheduler := newTestScheduler(clock, recorder, notifier)

	// Meeting 20 minutes out: the 1-hour fire instant is already in the
	// past and must be skipped, not fired immediately.
	m := meeting.ScheduledMeeting{
		ID:        "m-1",
		Title:     "Standup",
		Start:     clock.Current().Add(20 * time.Minute),
		Reminders: meeting.ReminderFlags{FifteenMin: true, OneHour: true},
	}

	armed := scheduler.Arm(m)
	if armed != 1 {
		t.Fatalf("expected exactly one reminder armed, got %d", armed)
	}
	if recorder.Armed() != 1 {
		t.Fatalf("expected exactly one timer created, got %d", recorder.Armed())
	}
	if recorder.Timers[0].Delay != 5*time.Minute {
		t.Errorf("15-minute reminder should fire in 5 minutes, got %s", recorder.Timers[0].Delay)
	}
	if len(notifier.bodies()) != 0 {
		t.Error("no reminder may fire at arming time")
	}
}

func TestArmOneDayReminderScenario(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	recorder := testfixtures.NewTimerRecorder()
	notifier := &notifierStub{}
	scheduler := newTestScheduler(clock, recorder, notifier)

	m := meeting.ScheduledMeeting{
		ID:        "m-standup",
		Title:     "Standup",
		RoomName:  "alpha-team",
		Start:     clock.Current().Add(48 * time.Hour),
		Reminders: meeting.ReminderFlags{OneDay: true},
	}

	if armed := scheduler.Arm(m); armed != 1 {
		t.Fatalf("expected one reminder armed, got %d", armed)
	}
	if got := recorder.Timers[0].Delay; got != 24*time.Hour {
		t.Errorf("1-day reminder should fire 24h before start, got %s", got)
	}

	recorder.Timers[0].Fire()
	bodies := notifier.bodies()
	if len(bodies) != 1 {
		t.Fatalf("expected one notification, got %d", len(bodies))
	}
	if !strings.Contains(bodies[0], `"Standup" is tomorrow!`) {
		t.Errorf("unexpected notification body: %s", bodies[0])
	}
	if !strings.Contains(bodies[0], "Meeting Reminder") {
		t.Errorf("notification should use the fixed title: %s", bodies[0])
	}
}

func TestArmAllOffsets(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	recorder := testfixtures.NewTimerRecorder()
	notifier := &notifierStub{}
	scheduler := newTestScheduler(clock, recorder, notifier)

	m := meeting.ScheduledMeeting{
		ID:        "m-2",
		Title:     "Planning",
		Start:     clock.Current().Add(72 * time.Hour),
		Reminders: meeting.ReminderFlags{FifteenMin: true, OneHour: true, OneDay: true},
	}

	if armed := scheduler.Arm(m); armed != 3 {
		t.Fatalf("expected all three reminders armed, got %d", armed)
	}

	wantDelays := []time.Duration{
		72*time.Hour - 15*time.Minute,
		71 * time.Hour,
		48 * time.Hour,
	}
	for i, want := range wantDelays {
		if got := recorder.Timers[i].Delay; got != want {
			t.Errorf("timer %d delay = %s, want %s", i, got, want)
		}
	}

	for _, timer := range recorder.Timers {
		timer.Fire()
	}
	bodies := notifier.bodies()
	if len(bodies) != 3 {
		t.Fatalf("expected three notifications, got %d", len(bodies))
	}
	if !strings.Contains(bodies[0], `"Planning" starts in 15 minutes!`) {
		t.Errorf("unexpected 15-minute body: %s", bodies[0])
	}
	if !strings.Contains(bodies[1], `"Planning" starts in 1 hour!`) {
		t.Errorf("unexpected 1-hour body: %s", bodies[1])
	}
}

func TestArmWithNoFlags(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	recorder := testfixtures.NewTimerRecorder()
	scheduler := newTestScheduler(clock, recorder, &notifierStub{})

	m := meeting.ScheduledMeeting{
		ID:    "m-3",
		Title: "Quiet",
		Start: clock.Current().Add(time.Hour),
	}
	if armed := scheduler.Arm(m); armed != 0 {
		t.Errorf("no flags means nothing armed, got %d", armed)
	}
	if recorder.Armed() != 0 {
		t.Errorf("no timers should be created, got %d", recorder.Armed())
	}
}

func TestDisarmStopsPendingTimers(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	recorder := testfixtures.NewTimerRecorder()
	notifier := &notifierStub{}
	scheduler := newTestScheduler(clock, recorder, notifier)

	m := meeting.ScheduledMeeting{
		ID:        "m-4",
		Title:     "Cancelled",
		Start:     clock.Current().Add(72 * time.Hour),
		Reminders: meeting.ReminderFlags{FifteenMin: true, OneDay: true},
	}
	scheduler.Arm(m)

	if stopped := scheduler.Disarm("m-4"); stopped != 2 {
		t.Fatalf("expected 2 timers stopped, got %d", stopped)
	}
	if scheduler.Pending("m-4") != 0 {
		t.Error("disarmed meeting should have no pending timers")
	}

	for _, timer := range recorder.Timers {
		timer.Fire()
	}
	if len(notifier.bodies()) != 0 {
		t.Error("stopped timers must not deliver notifications")
	}

	if stopped := scheduler.Disarm("m-4"); stopped != 0 {
		t.Errorf("repeated disarm should stop nothing, got %d", stopped)
	}
}
