// Package session orchestrates the join/leave lifecycle against the
// external conferencing widget. All mutable session state lives on the
// Controller so multiple instances can be exercised in isolation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/conference-hub/internal/meeting"
	"github.com/example/conference-hub/internal/notify"
	"github.com/example/conference-hub/internal/widget"
)

var (
	// ErrSessionActive is returned when a join is attempted while a session
	// is already underway.
	ErrSessionActive = errors.New("session: already in a session")
	// ErrWidgetFailure wraps widget construction or dispose failures. It is
	// non-fatal: the controller still transitions to idle.
	ErrWidgetFailure = errors.New("session: widget failure")
	// ErrPermissionDenied is returned when the user refuses a capture or
	// notification permission request.
	ErrPermissionDenied = errors.New("session: permission denied")
)

// State identifies the controller lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateJoining
	StateInSession
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateInSession:
		return "in_session"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Recorder is the local screen-capture capability the controller toggles.
type Recorder interface {
	// Start begins capturing. It returns ErrPermissionDenied when the user
	// refuses the capture permission.
	Start(ctx context.Context, room string) error
	// Stop ends the capture and returns the artifact name.
	Stop() (string, error)
	// Active reports whether a capture is running.
	Active() bool
}

// Controller runs the Idle -> Joining -> InSession -> Idle state machine.
type Controller struct {
	widget      widget.Widget
	credentials *meeting.CredentialRegistry
	history     *meeting.HistoryLog
	transcripts *meeting.TranscriptStore
	analytics   *meeting.AnalyticsLog
	notifier    notify.Notifier
	recorder    Recorder
	baseOrigin  string
	now         func() time.Time
	logger      *slog.Logger

	mu           sync.Mutex
	state        State
	handle       widget.Handle
	room         string
	displayName  string
	participants int
	recording    bool
	startedAt    time.Time
}

// Deps collects the collaborators a Controller needs.
type Deps struct {
	Widget      widget.Widget
	Credentials *meeting.CredentialRegistry
	History     *meeting.HistoryLog
	Transcripts *meeting.TranscriptStore
	Analytics   *meeting.AnalyticsLog
	Notifier    notify.Notifier
	Recorder    Recorder
	BaseOrigin  string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewController wires a controller in the idle state.
func NewController(deps Deps) *Controller {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		widget:      deps.Widget,
		credentials: deps.Credentials,
		history:     deps.History,
		transcripts: deps.Transcripts,
		analytics:   deps.Analytics,
		notifier:    deps.Notifier,
		recorder:    deps.Recorder,
		baseOrigin:  strings.TrimRight(deps.BaseOrigin, "/"),
		now:         now,
		logger:      logger,
		state:       StateIdle,
	}
}

// Join validates the request, verifies the room password and asks the widget
// to start. On success the controller is joining; the InSession transition
// happens when the widget reports the joined event.
func (c *Controller) Join(ctx context.Context, room, displayName, password string, opts widget.Options) error {
	room = strings.TrimSpace(room)
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "Guest"
	}

	if room == "" {
		vErr := &meeting.ValidationError{FieldErrors: map[string]string{"room_name": "room name is required"}}
		return vErr
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.mu.Unlock()

	if !c.credentials.Verify(ctx, room, password) {
		c.logger.Info("join rejected", "room", room, "kind", meeting.ErrorKind(meeting.ErrPasswordMismatch))
		return meeting.ErrPasswordMismatch
	}

	// First password supplied for an open room becomes the room password.
	if password != "" {
		if _, exists := c.credentials.Password(ctx, room); !exists {
			if err := c.credentials.SetPassword(ctx, room, password); err != nil {
				return err
			}
		}
	}

	if err := c.history.Record(ctx, meeting.HistoryEntry{
		RoomName:    room,
		DisplayName: displayName,
		HasPassword: password != "",
	}); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateJoining
	c.room = room
	c.displayName = displayName
	c.mu.Unlock()

	handle, err := c.widget.Start(ctx, widget.NewConfig(room, displayName, opts))
	if err != nil {
		c.mu.Lock()
		c.resetLocked()
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrWidgetFailure, err)
	}

	c.mu.Lock()
	c.handle = handle
	c.mu.Unlock()

	c.logger.Info("joining meeting", "room", room, "display_name", displayName)
	return nil
}

// HandleEvent dispatches one widget-emitted event.
func (c *Controller) HandleEvent(ctx context.Context, ev widget.Event) error {
	switch ev.Type {
	case widget.EventJoined:
		c.handleJoined(ctx)
	case widget.EventParticipantJoined:
		c.handleParticipantJoined(ev.DisplayName)
	case widget.EventParticipantLeft:
		c.handleParticipantLeft(ev.DisplayName)
	case widget.EventIncomingMessage:
		return c.handleMessage(ctx, ev.From, ev.Message)
	case widget.EventRecordingStatus:
		c.handleRecordingStatus(ev.RecordingOn)
	case widget.EventLeft, widget.EventReadyToClose:
		return c.Leave(ctx)
	default:
		c.logger.Debug("ignoring widget event", "type", string(ev.Type))
	}
	return nil
}

func (c *Controller) handleJoined(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateJoining {
		c.mu.Unlock()
		return
	}
	c.state = StateInSession
	c.startedAt = c.now()
	c.participants = 1
	room := c.room
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Notify("Meeting Started", fmt.Sprintf("You've joined %s", room))
	}
	if c.analytics != nil {
		if err := c.analytics.Track(ctx, "meeting_joined", map[string]any{"room": room}); err != nil {
			c.logger.Warn("analytics tracking failed", "error", err)
		}
	}
}

func (c *Controller) handleParticipantJoined(displayName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInSession {
		return
	}
	c.participants++
	c.logger.Info("participant joined", "room", c.room, "display_name", displayName, "participants", c.participants)
}

func (c *Controller) handleParticipantLeft(displayName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInSession {
		return
	}
	// Spurious leave events from the widget must not drive the counter
	// negative.
	if c.participants > 0 {
		c.participants--
	}
	c.logger.Info("participant left", "room", c.room, "display_name", displayName, "participants", c.participants)
}

func (c *Controller) handleMessage(ctx context.Context, from, message string) error {
	c.mu.Lock()
	room := c.room
	inSession := c.state == StateInSession
	c.mu.Unlock()
	if !inSession {
		return nil
	}
	return c.transcripts.Append(ctx, room, meeting.ChatMessage{
		From:    from,
		Message: message,
		SentAt:  c.now(),
	})
}

func (c *Controller) handleRecordingStatus(on bool) {
	c.mu.Lock()
	c.recording = on
	c.mu.Unlock()
}

// Leave tears the session down: duration is computed, analytics emitted, the
// widget handle disposed and all session fields cleared. A dispose failure
// is surfaced as ErrWidgetFailure but the controller still reaches idle.
func (c *Controller) Leave(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return nil
	}
	room := c.room
	startedAt := c.startedAt
	inSession := c.state == StateInSession
	handle := c.handle
	c.resetLocked()
	c.mu.Unlock()

	if c.recorder != nil && c.recorder.Active() {
		if _, err := c.recorder.Stop(); err != nil {
			c.logger.Warn("stopping recording failed", "error", err)
		}
	}

	if inSession && c.analytics != nil {
		duration := int(c.now().Sub(startedAt).Seconds())
		if err := c.analytics.Track(ctx, "meeting_ended", map[string]any{"room": room, "duration": duration}); err != nil {
			c.logger.Warn("analytics tracking failed", "error", err)
		}
	}

	if handle != nil {
		if err := handle.Dispose(); err != nil {
			c.logger.Warn("widget dispose failed", "room", room, "error", err)
			return fmt.Errorf("%w: %v", ErrWidgetFailure, err)
		}
	}

	c.logger.Info("left meeting", "room", room)
	return nil
}

func (c *Controller) resetLocked() {
	c.state = StateIdle
	c.handle = nil
	c.room = ""
	c.displayName = ""
	c.participants = 0
	c.recording = false
	c.startedAt = time.Time{}
}

// StartRecording toggles the local capture capability on. Permission refusal
// leaves session state unchanged.
func (c *Controller) StartRecording(ctx context.Context) error {
	if c.recorder == nil {
		return fmt.Errorf("no recorder configured")
	}
	c.mu.Lock()
	room := c.room
	inSession := c.state == StateInSession
	c.mu.Unlock()
	if !inSession {
		return fmt.Errorf("recording requires an active session")
	}
	return c.recorder.Start(ctx, room)
}

// StopRecording toggles the local capture off and returns the artifact name.
func (c *Controller) StopRecording() (string, error) {
	if c.recorder == nil {
		return "", fmt.Errorf("no recorder configured")
	}
	return c.recorder.Stop()
}

// InviteText renders the short invitation for the current session.
func (c *Controller) InviteText(ctx context.Context) string {
	c.mu.Lock()
	room := c.room
	c.mu.Unlock()
	if room == "" {
		return ""
	}
	password, _ := c.credentials.Password(ctx, room)
	return meeting.SessionInviteText(room, meeting.JoinLink(c.baseOrigin, room), password)
}

// Events exposes the active widget's event stream, or nil when no widget is
// attached.
func (c *Controller) Events() <-chan widget.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil
	}
	return c.handle.Events()
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Room returns the active room name, empty when idle.
func (c *Controller) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// Participants returns the tracked participant count.
func (c *Controller) Participants() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.participants
}

// Recording reports the widget-reported recording flag.
func (c *Controller) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}
