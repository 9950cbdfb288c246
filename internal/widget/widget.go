// Package widget defines the boundary to the external conferencing embed.
// The hub supplies a configuration object and consumes the lifecycle, chat,
// participant and recording events the widget emits.
package widget

import "context"

// Options are the join-form toggles recognized by the hub.
type Options struct {
	EnableWaitingRoom bool
	MuteOnEntry       bool
	DisableVideo      bool
}

// Config is the configuration object handed to the widget on start.
type Config struct {
	RoomName            string   `json:"roomName"`
	DisplayName         string   `json:"displayName"`
	StartWithAudioMuted bool     `json:"startWithAudioMuted"`
	StartWithVideoMuted bool     `json:"startWithVideoMuted"`
	PrejoinPageEnabled  bool     `json:"prejoinPageEnabled"`
	ToolbarButtons      []string `json:"toolbarButtons"`
	HideBranding        bool     `json:"hideBranding"`
}

// DefaultToolbarButtons lists the full feature set exposed on the widget
// toolbar.
func DefaultToolbarButtons() []string {
	return []string{
		"microphone", "camera", "closedcaptions", "desktop", "fullscreen",
		"fodeviceselection", "hangup", "profile", "chat", "recording",
		"livestreaming", "etherpad", "sharedvideo", "shareaudio", "settings",
		"raisehand", "videoquality", "filmstrip", "invite", "feedback",
		"stats", "shortcuts", "tileview", "select-background", "help",
		"mute-everyone", "security",
	}
}

// NewConfig builds the widget configuration for a join request.
func NewConfig(room, displayName string, opts Options) Config {
	return Config{
		RoomName:            room,
		DisplayName:         displayName,
		StartWithAudioMuted: opts.MuteOnEntry,
		StartWithVideoMuted: opts.DisableVideo,
		PrejoinPageEnabled:  opts.EnableWaitingRoom,
		ToolbarButtons:      DefaultToolbarButtons(),
		HideBranding:        true,
	}
}

// EventType identifies a widget-emitted event.
type EventType string

const (
	EventJoined            EventType = "videoConferenceJoined"
	EventLeft              EventType = "videoConferenceLeft"
	EventParticipantJoined EventType = "participantJoined"
	EventParticipantLeft   EventType = "participantLeft"
	EventReadyToClose      EventType = "readyToClose"
	EventIncomingMessage   EventType = "incomingMessage"
	EventRecordingStatus   EventType = "recordingStatusChanged"
)

// Event is one message emitted by the widget.
type Event struct {
	Type        EventType `json:"type"`
	DisplayName string    `json:"displayName,omitempty"`
	From        string    `json:"from,omitempty"`
	Message     string    `json:"message,omitempty"`
	RecordingOn bool      `json:"on,omitempty"`
}

// Handle is an active widget instance.
type Handle interface {
	// Events streams widget-emitted events. The channel closes when the
	// widget goes away.
	Events() <-chan Event
	// Dispose tears the instance down.
	Dispose() error
}

// Widget constructs widget instances for join requests.
type Widget interface {
	Start(ctx context.Context, cfg Config) (Handle, error)
}
