// Package dates parses user-supplied dates and renders relative
// timestamps for history listings.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse interprets a user-supplied date string and returns it in
// YYYY-MM-DD form. Accepted inputs: "today", "yesterday", a negative
// day offset like "-3" (three days ago), and the absolute formats
// YYYY-MM-DD, MM/DD/YYYY, and MM-DD-YYYY.
func Parse(input string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	now := time.Now()

	switch s {
	case "today":
		return now.Format("2006-01-02"), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), nil
	}

	if strings.HasPrefix(s, "-") {
		days, err := strconv.Atoi(s)
		if err != nil || days >= 0 {
			return "", fmt.Errorf("invalid day offset %q", input)
		}
		return now.AddDate(0, 0, days).Format("2006-01-02"), nil
	}

	for _, layout := range []string{"2006-01-02", "01/02/2006", "01-02-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD, MM/DD/YYYY, today, yesterday, or -N for N days ago)", input)
}

// Relative renders a timestamp for listings: very recent times as
// "just now" or "N mins ago", same-week times as hours or days ago,
// and anything older as an absolute date.
func Relative(t time.Time) string {
	return relativeTo(t, time.Now())
}

func relativeTo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 48*time.Hour:
		return "yesterday"
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
