package chart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/domain/chart"
)

func sessionFixture(t *testing.T, edge chart.Edge) *chart.Session {
	t.Helper()
	p := projectWithTasks("k-001",
		project.NewTask("k-001", "groundwork", project.WorkGeneral, day("2024-01-10"), day("2024-01-15")),
	)
	s := chart.Begin(p, "k-001", edge, 400)
	require.NotNil(t, s)
	return s
}

func TestBegin_UnknownTaskYieldsNoSession(t *testing.T) {
	p := projectWithTasks("k-001",
		project.NewTask("k-001", "groundwork", project.WorkGeneral, day("2024-01-10"), day("2024-01-15")),
	)
	assert.Nil(t, chart.Begin(p, "missing", chart.EdgeEnd, 0))
}

func TestMove_DragEndHandleRight(t *testing.T) {
	s := sessionFixture(t, chart.EdgeEnd)

	start, end := s.Move(400+3*chart.DefaultCellWidth, chart.DefaultCellWidth)

	assert.Equal(t, day("2024-01-10"), start, "start stays put")
	assert.Equal(t, day("2024-01-18"), end)
}

func TestMove_IsIdempotentInTotalDisplacement(t *testing.T) {
	s := sessionFixture(t, chart.EdgeEnd)

	// Intermediate moves must not accumulate; only the final displacement
	// matters.
	s.Move(400+chart.DefaultCellWidth, chart.DefaultCellWidth)
	s.Move(400+5*chart.DefaultCellWidth, chart.DefaultCellWidth)
	start, end := s.Move(400+2*chart.DefaultCellWidth, chart.DefaultCellWidth)

	assert.Equal(t, day("2024-01-10"), start)
	assert.Equal(t, day("2024-01-17"), end)
}

func TestMove_RoundsToNearestDay(t *testing.T) {
	s := sessionFixture(t, chart.EdgeEnd)

	_, end := s.Move(400+chart.DefaultCellWidth/2+1, chart.DefaultCellWidth)
	assert.Equal(t, day("2024-01-16"), end)

	_, end = s.Move(400+chart.DefaultCellWidth/4, chart.DefaultCellWidth)
	assert.Equal(t, day("2024-01-15"), end)
}

func TestMove_ClampsStartToEnd(t *testing.T) {
	s := sessionFixture(t, chart.EdgeStart)

	start, end := s.Move(400+20*chart.DefaultCellWidth, chart.DefaultCellWidth)

	assert.Equal(t, end, start, "dragged edge snaps to stationary edge")
	assert.Equal(t, day("2024-01-15"), start)
}

func TestMove_ClampsEndToStart(t *testing.T) {
	s := sessionFixture(t, chart.EdgeEnd)

	start, end := s.Move(400-20*chart.DefaultCellWidth, chart.DefaultCellWidth)

	assert.Equal(t, start, end)
	assert.Equal(t, day("2024-01-10"), end)
}

func TestMove_LeftwardStartDrag(t *testing.T) {
	s := sessionFixture(t, chart.EdgeStart)

	start, end := s.Move(400-2*chart.DefaultCellWidth, chart.DefaultCellWidth)

	assert.Equal(t, day("2024-01-08"), start)
	assert.Equal(t, day("2024-01-15"), end)
}

func TestEnd_YieldsSingleCommitWithFinalDates(t *testing.T) {
	s := sessionFixture(t, chart.EdgeEnd)
	s.Move(400+3*chart.DefaultCellWidth, chart.DefaultCellWidth)

	commit, ok := s.End()

	require.True(t, ok)
	assert.Equal(t, chart.Commit{
		ProjectID: "k-001",
		TaskID:    "k-001",
		Start:     day("2024-01-10"),
		End:       day("2024-01-18"),
	}, commit)
}

func TestEnd_WithoutMoveCommitsOriginalDates(t *testing.T) {
	s := sessionFixture(t, chart.EdgeStart)

	commit, ok := s.End()

	require.True(t, ok)
	assert.Equal(t, day("2024-01-10"), commit.Start)
	assert.Equal(t, day("2024-01-15"), commit.End)
}

func TestIdleSession_MoveAndEndAreNoOps(t *testing.T) {
	var s *chart.Session

	start, end := s.Move(100, chart.DefaultCellWidth)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())

	_, ok := s.End()
	assert.False(t, ok)
}
