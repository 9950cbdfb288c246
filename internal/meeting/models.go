package meeting

import "time"

// Storage keys. The names are part of the on-disk contract and must stay
// stable across releases so existing records remain readable.
const (
	historyKey   = "meetingHistory"
	passwordsKey = "roomPasswords"
	schedulesKey = "scheduledMeetings"
	analyticsKey = "analytics"
)

func chatKey(room string) string {
	return "chat-" + room
}

// ReminderFlags selects which reminder offsets are enabled for a meeting.
type ReminderFlags struct {
	FifteenMin bool `json:"remind15"`
	OneHour    bool `json:"remind1hour"`
	OneDay     bool `json:"remind1day"`
}

// ScheduleInput captures caller provided fields for a new scheduled meeting.
type ScheduleInput struct {
	Title           string
	RoomName        string
	Start           time.Time
	DurationMinutes int
	Description     string
	Password        string
	Reminders       ReminderFlags
}

// ScheduledMeeting represents a persisted future meeting.
type ScheduledMeeting struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	RoomName        string        `json:"roomName"`
	Start           time.Time     `json:"dateTime"`
	DurationMinutes int           `json:"duration"`
	Description     string        `json:"description,omitempty"`
	Password        string        `json:"password,omitempty"`
	Reminders       ReminderFlags `json:"reminders"`
	// JoinLink is derived from the room name and the hub's own base origin.
	// It is recomputed on every load and never trusted from storage.
	JoinLink  string    `json:"link"`
	CreatedAt time.Time `json:"created"`
}

// HistoryEntry records one joined meeting. It snapshots whether a password
// was used, never the password itself.
type HistoryEntry struct {
	RoomName    string    `json:"roomName"`
	DisplayName string    `json:"displayName"`
	HasPassword bool      `json:"hasPassword"`
	JoinedAt    time.Time `json:"timestamp"`
}

// ChatMessage is one entry in a per-room transcript.
type ChatMessage struct {
	From    string    `json:"from"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"timestamp"`
}

// AnalyticsEvent is one entry in the bounded global event log.
type AnalyticsEvent struct {
	Name    string         `json:"event"`
	Payload map[string]any `json:"data,omitempty"`
	At      time.Time      `json:"timestamp"`
}
