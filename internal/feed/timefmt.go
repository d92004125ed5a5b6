package feed

import (
	"fmt"
	"time"
)

// TimeAgo renders a timestamp as a relative age ("just now", "5 min ago").
// A zero timestamp renders as "unknown".
func TimeAgo(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

// Clock renders a timestamp as a short wall-clock time ("3:04 PM").
// A zero timestamp renders as a placeholder.
func Clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format("3:04 PM")
}
