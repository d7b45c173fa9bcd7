package odds

import (
	"time"

	"github.com/XavierBriggs/Janus/pkg/models"
)

// Window selects which matches a request covers
type Window int

const (
	// WindowHour keeps matches starting between one and two hours from now
	WindowHour Window = iota
	// WindowDay keeps matches starting on the current reference-zone calendar day
	WindowDay
)

// ReferenceZone is the fixed UTC+1 zone calendar days are computed in
var ReferenceZone = time.FixedZone("UTC+1", 60*60)

func (w Window) String() string {
	if w == WindowDay {
		return "day"
	}
	return "hour"
}

// Bounds returns the window edges for now
// Hour: [now+1h, now+2h] inclusive. Day: [00:00, 24:00) in ReferenceZone.
func (w Window) Bounds(now time.Time) (start, end time.Time) {
	if w == WindowDay {
		local := now.In(ReferenceZone)
		start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, ReferenceZone)
		return start, start.AddDate(0, 0, 1)
	}
	return now.Add(time.Hour), now.Add(2 * time.Hour)
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t, now time.Time) bool {
	start, end := w.Bounds(now)
	if t.Before(start) {
		return false
	}
	if w == WindowDay {
		return t.Before(end)
	}
	return !t.After(end)
}

// FilterByWindow keeps matches whose commence time falls inside the window
func FilterByWindow(matches []models.Match, w Window, now time.Time) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if w.Contains(m.CommenceTime, now) {
			out = append(out, m)
		}
	}
	return out
}
