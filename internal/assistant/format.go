package assistant

import (
	"fmt"
	"time"
)

// FormatRelative renders a message timestamp for display: "agora" inside a
// minute, "há N min" inside an hour, "há Nh" inside a day, then the
// absolute date.
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "agora"
	case elapsed < time.Hour:
		return fmt.Sprintf("há %d min", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("há %dh", int(elapsed.Hours()))
	default:
		return t.Format("02/01 15:04")
	}
}
