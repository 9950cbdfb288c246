package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/conference-hub/internal/storage"
)

// defaultDurationMinutes is applied when the caller leaves duration unset.
const defaultDurationMinutes = 30

// ReminderArmer arms best-effort reminder timers for a newly created meeting
// and reports how many were armed.
type ReminderArmer interface {
	Arm(meeting ScheduledMeeting) int
}

// ScheduleService owns the registry of future meetings: creation with
// validation, pruning reads, lookup and deletion.
type ScheduleService struct {
	store       storage.Store
	credentials *CredentialRegistry
	armer       ReminderArmer
	baseOrigin  string
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewScheduleService wires dependencies for schedule operations. A nil armer
// disables reminder arming; a nil idGenerator falls back to time-ordered ids.
func NewScheduleService(store storage.Store, credentials *CredentialRegistry, armer ReminderArmer, baseOrigin string, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = func() string { return NewMeetingID(now()) }
	}
	return &ScheduleService{
		store:       store,
		credentials: credentials,
		armer:       armer,
		baseOrigin:  strings.TrimRight(baseOrigin, "/"),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// NewMeetingID returns a creation-time-ordered identifier. The uuid fragment
// breaks ties between meetings created within the same millisecond.
func NewMeetingID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Create validates the input and persists a new scheduled meeting. The
// registry stays sorted ascending by start instant. A provided password is
// mirrored into the credential registry so the join flow can verify it.
func (s *ScheduleService) Create(ctx context.Context, input ScheduleInput) (ScheduledMeeting, error) {
	logger := serviceLogger(ctx, s.logger, "schedule", "create", "room", input.RoomName)

	now := s.now()
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.RoomName) == "" {
		vErr.add("room_name", "room name is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start date and time are required")
	} else if !input.Start.After(now) {
		vErr.add("start", "start must be in the future")
	}
	if input.DurationMinutes < 0 {
		vErr.add("duration", "duration must be positive")
	}

	if vErr.HasErrors() {
		logger.Info("create rejected", "kind", ErrorKind(vErr))
		return ScheduledMeeting{}, vErr
	}

	duration := input.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}

	created := ScheduledMeeting{
		ID:              s.idGenerator(),
		Title:           strings.TrimSpace(input.Title),
		RoomName:        strings.TrimSpace(input.RoomName),
		Start:           input.Start,
		DurationMinutes: duration,
		Description:     strings.TrimSpace(input.Description),
		Password:        input.Password,
		Reminders:       input.Reminders,
		CreatedAt:       now,
	}
	created.JoinLink = s.joinLink(created.RoomName)

	if created.Password != "" && s.credentials != nil {
		if err := s.credentials.SetPassword(ctx, created.RoomName, created.Password); err != nil {
			return ScheduledMeeting{}, err
		}
	}

	meetings := s.loadAll(ctx)
	meetings = append(meetings, created)
	sortByStart(meetings)

	if err := s.persist(ctx, meetings); err != nil {
		logger.Error("persist failed", "error", err)
		return ScheduledMeeting{}, err
	}

	if s.armer != nil {
		armed := s.armer.Arm(created)
		logger.Info("meeting scheduled", "id", created.ID, "start", created.Start, "reminders_armed", armed)
	} else {
		logger.Info("meeting scheduled", "id", created.ID, "start", created.Start)
	}

	return created, nil
}

// ListUpcoming returns future meetings in ascending start order. Meetings
// whose start instant has passed are discarded permanently: the filtered set
// is written back to storage, which is the registry's sole pruning mechanism.
func (s *ScheduleService) ListUpcoming(ctx context.Context) ([]ScheduledMeeting, error) {
	meetings := s.loadAll(ctx)
	upcoming := pruneUpcoming(meetings, s.now())

	if err := s.persist(ctx, upcoming); err != nil {
		serviceLogger(ctx, s.logger, "schedule", "list_upcoming").Error("persist failed", "error", err)
		return nil, err
	}

	return upcoming, nil
}

// FindByID returns the meeting with the given id, or ErrNotFound.
func (s *ScheduleService) FindByID(ctx context.Context, id string) (ScheduledMeeting, error) {
	for _, m := range s.loadAll(ctx) {
		if m.ID == id {
			return m, nil
		}
	}
	return ScheduledMeeting{}, ErrNotFound
}

// Delete removes the meeting with the given id. Deleting an absent id is not
// an error. An already-armed reminder for the meeting keeps its timer; see
// the reminder package for the disarm capability.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	meetings := s.loadAll(ctx)

	remaining := meetings[:0]
	for _, m := range meetings {
		if m.ID != id {
			remaining = append(remaining, m)
		}
	}

	if err := s.persist(ctx, remaining); err != nil {
		serviceLogger(ctx, s.logger, "schedule", "delete", "id", id).Error("persist failed", "error", err)
		return err
	}
	return nil
}

// pruneUpcoming returns the meetings starting strictly after now, sorted
// ascending by start. It is the pure half of ListUpcoming.
func pruneUpcoming(meetings []ScheduledMeeting, now time.Time) []ScheduledMeeting {
	upcoming := make([]ScheduledMeeting, 0, len(meetings))
	for _, m := range meetings {
		if m.Start.After(now) {
			upcoming = append(upcoming, m)
		}
	}
	sortByStart(upcoming)
	return upcoming
}

func sortByStart(meetings []ScheduledMeeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		if meetings[i].Start.Equal(meetings[j].Start) {
			return meetings[i].ID < meetings[j].ID
		}
		return meetings[i].Start.Before(meetings[j].Start)
	})
}

// loadAll reads the stored registry, recomputing each join link from the
// configured base origin. Corrupt data reads as an empty registry.
func (s *ScheduleService) loadAll(ctx context.Context) []ScheduledMeeting {
	var meetings []ScheduledMeeting
	storage.ReadJSON(ctx, s.store, schedulesKey, &meetings)
	for i := range meetings {
		meetings[i].JoinLink = s.joinLink(meetings[i].RoomName)
	}
	return meetings
}

func (s *ScheduleService) persist(ctx context.Context, meetings []ScheduledMeeting) error {
	if meetings == nil {
		meetings = []ScheduledMeeting{}
	}
	return storage.WriteJSON(ctx, s.store, schedulesKey, meetings)
}

func (s *ScheduleService) joinLink(room string) string {
	return JoinLink(s.baseOrigin, room)
}

// JoinLink builds the deterministic join URL for a room under the hub's own
// base origin.
func JoinLink(baseOrigin, room string) string {
	return fmt.Sprintf("%s/meeting.html?room=%s", strings.TrimRight(baseOrigin, "/"), url.QueryEscape(room))
}
