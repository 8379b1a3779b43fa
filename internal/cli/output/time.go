package output

import (
	"time"

	"github.com/dustin/go-humanize"
)

// LocalTimeFormat is the format used for absolute local times in CLI output.
const LocalTimeFormat = "2006-01-02 15:04:05"

// FormatTime renders t either relative to now ("3 minutes ago") or as a
// local timestamp.
func FormatTime(t time.Time, relative bool) string {
	if t.IsZero() {
		return "-"
	}
	if relative {
		return humanize.Time(t)
	}
	return t.Local().Format(LocalTimeFormat)
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
