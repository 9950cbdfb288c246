package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CaptureSource opens a local capture stream. Opening is the asynchronous
// permission request: it fails with ErrPermissionDenied when the user
// declines.
type CaptureSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// LocalRecorder streams a capture source into a downloadable artifact file.
// It is a side capability independent of the session state machine.
type LocalRecorder struct {
	source CaptureSource
	dir    string
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	stream   io.ReadCloser
	artifact string
	done     chan struct{}
}

// NewLocalRecorder wires a recorder that writes artifacts into dir.
func NewLocalRecorder(source CaptureSource, dir string, now func() time.Time, logger *slog.Logger) *LocalRecorder {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalRecorder{source: source, dir: dir, now: now, logger: logger}
}

// Start opens the capture source and begins streaming into the artifact
// file. A permission refusal from the source is returned unchanged and
// leaves the recorder inactive.
func (r *LocalRecorder) Start(ctx context.Context, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		return fmt.Errorf("recording already in progress")
	}

	stream, err := r.source.Open(ctx)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("meeting-%s-%d.webm", room, r.now().UnixMilli())
	path := filepath.Join(r.dir, name)
	file, err := os.Create(path)
	if err != nil {
		stream.Close()
		return fmt.Errorf("create recording artifact: %w", err)
	}

	r.stream = stream
	r.artifact = path
	r.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		defer file.Close()
		if _, err := io.Copy(file, stream); err != nil {
			r.logger.Warn("recording stream ended with error", "artifact", path, "error", err)
		}
	}(r.done)

	r.logger.Info("recording started", "artifact", path)
	return nil
}

// Stop closes the capture stream, waits for the encoder copy to flush and
// returns the artifact path.
func (r *LocalRecorder) Stop() (string, error) {
	r.mu.Lock()
	stream := r.stream
	artifact := r.artifact
	done := r.done
	r.stream = nil
	r.artifact = ""
	r.done = nil
	r.mu.Unlock()

	if stream == nil {
		return "", fmt.Errorf("no recording in progress")
	}

	if err := stream.Close(); err != nil {
		r.logger.Warn("closing capture stream failed", "error", err)
	}
	<-done

	r.logger.Info("recording saved", "artifact", artifact)
	return artifact, nil
}

// Active reports whether a capture is running.
func (r *LocalRecorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}
