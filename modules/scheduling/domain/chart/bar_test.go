package chart_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/chart"
)

func TestBarFor(t *testing.T) {
	min := day("2024-01-01")

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  chart.BarGeometry
	}{
		{
			name:  "single day at grid minimum",
			start: day("2024-01-01"),
			end:   day("2024-01-01"),
			want:  chart.BarGeometry{OffsetPx: 0, WidthPx: chart.DefaultCellWidth},
		},
		{
			name:  "width linear in duration",
			start: day("2024-01-01"),
			end:   day("2024-01-05"),
			want:  chart.BarGeometry{OffsetPx: 0, WidthPx: 5 * chart.DefaultCellWidth},
		},
		{
			name:  "offset linear in distance from minimum",
			start: day("2024-01-11"),
			end:   day("2024-01-12"),
			want:  chart.BarGeometry{OffsetPx: 10 * chart.DefaultCellWidth, WidthPx: 2 * chart.DefaultCellWidth},
		},
		{
			name:  "end before start is invisible",
			start: day("2024-01-10"),
			end:   day("2024-01-05"),
			want:  chart.BarGeometry{},
		},
		{
			name:  "unset dates are invisible",
			start: time.Time{},
			end:   time.Time{},
			want:  chart.BarGeometry{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chart.BarFor(tt.start, tt.end, min, chart.DefaultCellWidth)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.WidthPx, 0)
		})
	}
}

func TestBarFor_NormalizesTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 2, 23, 59, 0, 0, time.Local)
	end := time.Date(2024, 1, 3, 0, 1, 0, 0, time.Local)

	got := chart.BarFor(start, end, day("2024-01-01"), chart.DefaultCellWidth)

	assert.Equal(t, chart.BarGeometry{OffsetPx: chart.DefaultCellWidth, WidthPx: 2 * chart.DefaultCellWidth}, got)
}
