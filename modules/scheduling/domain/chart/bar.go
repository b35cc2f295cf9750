package chart

import "time"

// DefaultCellWidth is the fixed pixel width of one calendar day.
const DefaultCellWidth = 48

// BarGeometry positions one task bar on the grid. A zero value means the bar
// is invisible.
type BarGeometry struct {
	OffsetPx int `json:"offset_px"`
	WidthPx  int `json:"width_px"`
}

// BarFor computes the horizontal offset and width of a task bar. Dates are
// normalized to midnight first. Duration is inclusive: a one-day task is one
// cell wide. Unset dates or an inverted range yield a zero-size, zero-offset
// bar instead of an error.
func BarFor(start, end, gridMin time.Time, cellWidth int) BarGeometry {
	if start.IsZero() || end.IsZero() || gridMin.IsZero() {
		return BarGeometry{}
	}
	s := Midnight(start)
	e := Midnight(end)
	m := Midnight(gridMin)
	days := daysBetween(s, e) + 1
	if days <= 0 {
		return BarGeometry{}
	}
	return BarGeometry{
		OffsetPx: daysBetween(m, s) * cellWidth,
		WidthPx:  days * cellWidth,
	}
}
