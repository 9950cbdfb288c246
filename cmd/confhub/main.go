package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/conference-hub/internal/clipboard"
	"github.com/example/conference-hub/internal/config"
	"github.com/example/conference-hub/internal/logging"
	"github.com/example/conference-hub/internal/meeting"
	"github.com/example/conference-hub/internal/notify"
	"github.com/example/conference-hub/internal/reminder"
	"github.com/example/conference-hub/internal/session"
	"github.com/example/conference-hub/internal/storage"
	"github.com/example/conference-hub/internal/widget"
)

const startLayout = "2006-01-02 15:04"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.OpenSQLite(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	now := time.Now

	credentials := meeting.NewCredentialRegistry(store, logger)
	history := meeting.NewHistoryLog(store, now, logger)
	transcripts := meeting.NewTranscriptStore(store, logger)
	analytics := meeting.NewAnalyticsLog(store, now, logger)

	notifier := notify.NewGatedNotifier(notify.NewLogNotifier(logger), func() bool { return true })
	notifier.RequestPermissionAfter(cfg.NotifyRequestDelay)

	reminders := reminder.NewScheduler(notifier, now, nil, logger)
	schedules := meeting.NewScheduleService(store, credentials, reminders, cfg.BaseOrigin, nil, now, logger)

	var recorder session.Recorder
	if cfg.CaptureDevice != "" {
		recorder = session.NewLocalRecorder(fileCapture{path: cfg.CaptureDevice}, cfg.RecordingOutputDir, now, logger)
	}

	widgetClient := widget.NewClient(cfg.WidgetURL, cfg.WidgetDialTimeout, logger)
	controller := session.NewController(session.Deps{
		Widget:      widgetClient,
		Credentials: credentials,
		History:     history,
		Transcripts: transcripts,
		Analytics:   analytics,
		Notifier:    notifier,
		Recorder:    recorder,
		BaseOrigin:  cfg.BaseOrigin,
		Now:         now,
		Logger:      logger,
	})

	copier := clipboard.NewCopier(os.Stdout, logger)

	app := &app{
		ctx:         ctx,
		logger:      logger,
		schedules:   schedules,
		history:     history,
		controller:  controller,
		credentials: credentials,
		copier:      copier,
	}

	if err := app.run(os.Args[1:]); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// fileCapture opens the configured capture device path. A FIFO works well:
// closing the file on stop unblocks the streaming copy.
type fileCapture struct {
	path string
}

func (f fileCapture) Open(ctx context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	return file, nil
}

type app struct {
	ctx         context.Context
	logger      *slog.Logger
	schedules   *meeting.ScheduleService
	history     *meeting.HistoryLog
	controller  *session.Controller
	credentials *meeting.CredentialRegistry
	copier      *clipboard.Copier
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("a command is required")
	}

	switch args[0] {
	case "schedule":
		return a.schedule(args[1:])
	case "upcoming":
		return a.upcoming()
	case "delete":
		return a.delete(args[1:])
	case "history":
		return a.listHistory()
	case "join":
		return a.join(args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: confhub <command> [flags]

commands:
  schedule   schedule a future meeting and arm its reminders
  upcoming   list upcoming meetings (past meetings are pruned)
  delete     delete a scheduled meeting by id
  history    show the recent meeting history
  join       join a meeting room and stream widget events`)
}

func (a *app) schedule(args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ContinueOnError)
	title := fs.String("title", "", "meeting title")
	room := fs.String("room", "", "room name (random when empty)")
	start := fs.String("start", "", `start time, "2006-01-02 15:04" in local time`)
	duration := fs.Int("duration", 30, "duration in minutes")
	description := fs.String("description", "", "optional description")
	password := fs.String("password", "", "optional room password")
	remind15 := fs.Bool("remind15", false, "remind 15 minutes before")
	remind1h := fs.Bool("remind1h", false, "remind 1 hour before")
	remind1d := fs.Bool("remind1d", false, "remind 1 day before")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *room == "" {
		*room = meeting.RandomRoomName()
	}

	var startAt time.Time
	if *start != "" {
		parsed, err := time.ParseInLocation(startLayout, *start, time.Local)
		if err != nil {
			return fmt.Errorf("invalid -start value: %w", err)
		}
		startAt = parsed
	}

	created, err := a.schedules.Create(a.ctx, meeting.ScheduleInput{
		Title:           *title,
		RoomName:        *room,
		Start:           startAt,
		DurationMinutes: *duration,
		Description:     *description,
		Password:        *password,
		Reminders: meeting.ReminderFlags{
			FifteenMin: *remind15,
			OneHour:    *remind1h,
			OneDay:     *remind1d,
		},
	})
	if err != nil {
		return err
	}

	invite := meeting.InviteText(created)
	fmt.Println(invite)
	if err := a.copier.Copy(invite); err != nil {
		a.logger.Warn("could not copy invite", "error", err)
	}
	return nil
}

func (a *app) upcoming() error {
	meetings, err := a.schedules.ListUpcoming(a.ctx)
	if err != nil {
		return err
	}
	if len(meetings) == 0 {
		fmt.Println("No upcoming meetings")
		return nil
	}
	for _, m := range meetings {
		locked := ""
		if m.Password != "" {
			locked = " [locked]"
		}
		fmt.Printf("%s  %s  %s%s\n", m.ID, m.Start.Format(startLayout), m.Title, locked)
	}
	return nil
}

func (a *app) delete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "meeting id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}
	return a.schedules.Delete(a.ctx, *id)
}

func (a *app) listHistory() error {
	entries := a.history.List(a.ctx)
	if len(entries) == 0 {
		fmt.Println("No meeting history")
		return nil
	}
	for _, e := range entries {
		locked := ""
		if e.HasPassword {
			locked = " [locked]"
		}
		fmt.Printf("%s  %s as %s%s\n", e.JoinedAt.Format(startLayout), e.RoomName, e.DisplayName, locked)
	}
	return nil
}

func (a *app) join(args []string) error {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	room := fs.String("room", "", "room name")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "room password")
	entryURL := fs.String("url", "", "entry URL carrying room and name parameters")
	waitingRoom := fs.Bool("waiting-room", false, "hold participants until admitted")
	mute := fs.Bool("mute", false, "join with audio muted")
	noVideo := fs.Bool("no-video", false, "join with video disabled")
	record := fs.Bool("record", false, "record the meeting to a local file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *entryURL != "" {
		params, err := session.ParseEntryParams(a.ctx, *entryURL, a.credentials)
		if err != nil {
			return err
		}
		if *room == "" {
			*room = params.Room
		}
		if *name == "" {
			*name = params.DisplayName
		}
		if params.NeedsPassword && *password == "" {
			return fmt.Errorf("room %q requires a password", *room)
		}
	}

	err := a.controller.Join(a.ctx, *room, *name, *password, widget.Options{
		EnableWaitingRoom: *waitingRoom,
		MuteOnEntry:       *mute,
		DisableVideo:      *noVideo,
	})
	if err != nil {
		return err
	}

	events := a.controller.Events()
	recording := false
	for {
		select {
		case <-a.ctx.Done():
			return a.controller.Leave(context.Background())
		case ev, ok := <-events:
			if !ok {
				return a.controller.Leave(a.ctx)
			}
			if err := a.controller.HandleEvent(a.ctx, ev); err != nil {
				a.logger.Warn("event handling failed", "type", string(ev.Type), "error", err)
			}
			if *record && !recording && a.controller.State() == session.StateInSession {
				if err := a.controller.StartRecording(a.ctx); err != nil {
					a.logger.Warn("could not start recording", "error", err)
				} else {
					recording = true
				}
			}
			if a.controller.State() == session.StateIdle {
				return nil
			}
		}
	}
}
