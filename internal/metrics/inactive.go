package metrics

import (
	"strconv"
	"time"

	"github.com/blackwell-systems/cursorwatch/internal/logger"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Inactive returns the aggregates considered inactive for the given
// trailing day window. A user is inactive when they have no recorded
// activity at all, when their last-active timestamp cannot be parsed,
// or when it falls strictly before now minus the window.
func Inactive(aggs []*Aggregate, days int, now time.Time) []*Aggregate {
	if days <= 0 {
		days = 1
	}
	cutoff := now.UnixMilli() - int64(days)*millisPerDay

	var inactive []*Aggregate
	for _, agg := range aggs {
		if agg.LastActiveAt == "" {
			inactive = append(inactive, agg)
			continue
		}
		ts, ok := ParseWhen(agg.LastActiveAt)
		if !ok {
			logger.Warn("unparseable last-active timestamp, classifying as inactive",
				"user", agg.UserEmail, "lastActiveAt", agg.LastActiveAt)
			inactive = append(inactive, agg)
			continue
		}
		if ts < cutoff {
			inactive = append(inactive, agg)
		}
	}
	return inactive
}

// ParseWhen parses a loose timestamp into epoch millis. It accepts
// numeric epoch-millis (the daily-usage rows) and ISO-8601 strings
// (roster-derived data).
func ParseWhen(s string) (int64, bool) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// DaysSince returns how many whole days ago the given loose timestamp
// was, or -1 when it cannot be parsed.
func DaysSince(s string, now time.Time) int {
	ts, ok := ParseWhen(s)
	if !ok {
		return -1
	}
	return int((now.UnixMilli() - ts) / millisPerDay)
}

// ActivityLevel buckets a days-since-active count into the labels the
// dashboard has always used. Unparseable input (negative days) lands
// in Inactive.
func ActivityLevel(daysSinceActive int) string {
	switch {
	case daysSinceActive < 0:
		return "Inactive"
	case daysSinceActive <= 1:
		return "Very Active"
	case daysSinceActive <= 7:
		return "Active"
	case daysSinceActive <= 30:
		return "Moderately Active"
	default:
		return "Inactive"
	}
}
