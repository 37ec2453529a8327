package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/blackwell-systems/cursorwatch/internal/cache"
	"github.com/blackwell-systems/cursorwatch/internal/config"
	"github.com/blackwell-systems/cursorwatch/internal/cursor"
	"github.com/blackwell-systems/cursorwatch/internal/metrics"
	"github.com/blackwell-systems/cursorwatch/internal/service"
)

// newService loads configuration and wires up the service stack shared
// by every command.
func newService() (*service.Service, *config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := cursor.NewClient(cfg.APIKey,
		cursor.WithBaseURL(cfg.BaseURL),
		cursor.WithTimeout(cfg.RequestTimeout()),
	)
	if err != nil {
		return nil, nil, err
	}

	return service.New(client, cache.New(cfg.CacheMaxEntries), cfg), cfg, nil
}

// cmdContext returns a context bounding a whole command: one
// per-request timeout for every candidate in a full fallback sweep,
// not just one request.
func cmdContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	budget := time.Duration(cursor.MaxAttempts()) * cfg.RequestTimeout()
	return context.WithTimeout(context.Background(), budget)
}

// userMessage strips upstream response bodies from the message shown
// to the user. The full error is still logged by Execute.
func userMessage(err error) string {
	var fallbackErr *cursor.FallbackError
	if errors.As(err, &fallbackErr) {
		return fallbackErr.Summary()
	}
	var apiErr *cursor.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Summary()
	}
	return err.Error()
}

const isoDate = "2006-01-02"

// dateRange resolves --from/--to values. Empty values default to the
// trailing window of the given length in days, ending now.
func dateRange(fromFlag, toFlag string, windowDays int) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -windowDays)

	var err error
	if fromFlag != "" {
		from, err = time.Parse(isoDate, fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", fromFlag)
		}
	}
	if toFlag != "" {
		to, err = time.Parse(isoDate, toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", toFlag)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", to.Format(isoDate), from.Format(isoDate))
	}
	return from, to, nil
}

// writeJSON pretty-prints v to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// lastActiveLabel formats an aggregate's last-active timestamp for
// display: days-ago when it parses, a dash when the user was never
// active, and the raw value when it cannot be parsed.
func lastActiveLabel(a *metrics.Aggregate, now time.Time) string {
	if a.LastActiveAt == "" {
		return "-"
	}
	days := metrics.DaysSince(a.LastActiveAt, now)
	if days < 0 {
		return a.LastActiveAt
	}
	switch days {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	default:
		return strconv.Itoa(days) + "d ago"
	}
}
