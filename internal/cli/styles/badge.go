package styles

import (
	"fmt"
	"time"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

// ZoomBadge renders a zoom percentage badge.
func (t *Theme) ZoomBadge(percent int) string {
	return t.Badge.Render(fmt.Sprintf("%d%%", percent))
}

// PageBadge renders "current / total".
func (t *Theme) PageBadge(current, total int) string {
	return t.BadgeMuted.Render(fmt.Sprintf("%d / %d", current, total))
}

// TimeBadge renders a relative time badge.
func (t *Theme) TimeBadge(tm time.Time) string {
	return t.BadgeMuted.Render(RelativeTime(tm))
}

// StatusText colors a render status.
func (t *Theme) StatusText(status entity.RenderStatus) string {
	switch status {
	case entity.RenderReady:
		return t.SuccessStyle.Render(string(status))
	case entity.RenderFailed:
		return t.ErrorStyle.Render(string(status))
	case entity.RenderDiscarded:
		return t.WarningStyle.Render(string(status))
	default:
		return t.Subtle.Render(string(status))
	}
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	diff := time.Since(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "m")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "h")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "d")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "w")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/(24*30)), "mo")
	default:
		return plural(int(diff.Hours()/(24*365)), "y")
	}
}

func plural(n int, unit string) string {
	return fmt.Sprintf("%d%s ago", n, unit)
}
