package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the hub.
type Config struct {
	SQLiteDSN          string
	BaseOrigin         string
	WidgetURL          string
	NotifyRequestDelay time.Duration
	WidgetDialTimeout  time.Duration
	RecordingOutputDir string
	// CaptureDevice is the path recording reads from, typically a FIFO fed
	// by an external capture tool. Empty disables local recording.
	CaptureDevice string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and accumulating error messages for missing entries.
func Load() (Config, error) {
	cfg := Config{
		SQLiteDSN:          "file:confhub.db?_foreign_keys=on",
		BaseOrigin:         "http://localhost:8080",
		NotifyRequestDelay: 3 * time.Second,
		WidgetDialTimeout:  10 * time.Second,
		RecordingOutputDir: ".",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if dsn := strings.TrimSpace(os.Getenv("CONFHUB_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if origin := strings.TrimSpace(os.Getenv("CONFHUB_BASE_ORIGIN")); origin != "" {
		if _, err := url.ParseRequestURI(origin); err != nil {
			invalid = append(invalid, "CONFHUB_BASE_ORIGIN")
		} else {
			cfg.BaseOrigin = strings.TrimRight(origin, "/")
		}
	}

	if widgetURL := strings.TrimSpace(os.Getenv("CONFHUB_WIDGET_URL")); widgetURL == "" {
		missing = append(missing, "CONFHUB_WIDGET_URL")
	} else if parsed, err := url.Parse(widgetURL); err != nil || (parsed.Scheme != "ws" && parsed.Scheme != "wss") {
		invalid = append(invalid, "CONFHUB_WIDGET_URL")
	} else {
		cfg.WidgetURL = widgetURL
	}

	if delayValue := strings.TrimSpace(os.Getenv("CONFHUB_NOTIFY_REQUEST_DELAY")); delayValue != "" {
		delay, err := time.ParseDuration(delayValue)
		if err != nil || delay < 0 {
			invalid = append(invalid, "CONFHUB_NOTIFY_REQUEST_DELAY")
		} else {
			cfg.NotifyRequestDelay = delay
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("CONFHUB_WIDGET_DIAL_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "CONFHUB_WIDGET_DIAL_TIMEOUT")
		} else {
			cfg.WidgetDialTimeout = timeout
		}
	}

	if dir := strings.TrimSpace(os.Getenv("CONFHUB_RECORDING_DIR")); dir != "" {
		cfg.RecordingOutputDir = dir
	}

	cfg.CaptureDevice = strings.TrimSpace(os.Getenv("CONFHUB_CAPTURE_DEVICE"))

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
