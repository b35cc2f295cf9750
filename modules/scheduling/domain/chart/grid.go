package chart

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
)

const (
	// PadDays is added on each side of the observed task span.
	PadDays = 14
	// DefaultWindowDays is the grid length when no task has dates.
	DefaultWindowDays = 60
)

// DateGrid is the ordered, contiguous sequence of calendar days shown as
// chart columns. Derived on every change, never persisted.
type DateGrid struct {
	Days []time.Time
}

// Min returns the first day of the grid.
func (g DateGrid) Min() time.Time {
	if len(g.Days) == 0 {
		return time.Time{}
	}
	return g.Days[0]
}

// BuildDateGrid scans every task of every project and produces one entry per
// calendar day across the padded min/max span. Tasks with unset dates or an
// inverted range are skipped. With no usable tasks the grid is a fixed
// 60-day window starting today.
func BuildDateGrid(projects []project.Project, clock clockwork.Clock) DateGrid {
	var min, max time.Time
	found := false
	for _, p := range projects {
		for _, t := range p.Tasks() {
			start := Midnight(t.Start())
			end := Midnight(t.End())
			if t.Start().IsZero() || t.End().IsZero() || start.After(end) {
				continue
			}
			if !found {
				min, max = start, end
				found = true
				continue
			}
			if start.Before(min) {
				min = start
			}
			if end.After(max) {
				max = end
			}
		}
	}

	if !found {
		first := Midnight(clock.Now())
		return DateGrid{Days: enumerate(first, first.AddDate(0, 0, DefaultWindowDays-1))}
	}
	return DateGrid{Days: enumerate(min.AddDate(0, 0, -PadDays), max.AddDate(0, 0, PadDays))}
}

// Midnight strips the time-of-day and normalizes to UTC so day arithmetic
// never crosses DST boundaries.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func enumerate(first, last time.Time) []time.Time {
	days := make([]time.Time, 0, daysBetween(first, last)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
