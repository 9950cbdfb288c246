// Package clipboard wraps the system clipboard with a synchronous fallback
// path for environments where no clipboard is available.
package clipboard

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"
)

// Copier copies text to the system clipboard, falling back to an injected
// writer when the primary path is unavailable or fails.
type Copier struct {
	fallback io.Writer
	logger   *slog.Logger

	// unsupported and write are swappable for tests.
	unsupported func() bool
	write       func(string) error
}

// NewCopier returns a copier that falls back to fallback on failure.
func NewCopier(fallback io.Writer, logger *slog.Logger) *Copier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Copier{
		fallback:    fallback,
		logger:      logger,
		unsupported: func() bool { return clipboard.Unsupported },
		write:       clipboard.WriteAll,
	}
}

// Copy places text on the clipboard. When the system clipboard is missing or
// the write fails, the text is written to the fallback writer instead.
func (c *Copier) Copy(text string) error {
	if !c.unsupported() {
		if err := c.write(text); err == nil {
			return nil
		} else {
			c.logger.Debug("clipboard write failed, using fallback", "error", err)
		}
	}

	if c.fallback == nil {
		return fmt.Errorf("clipboard unavailable and no fallback configured")
	}
	if _, err := io.WriteString(c.fallback, text); err != nil {
		return fmt.Errorf("clipboard fallback write: %w", err)
	}
	return nil
}
