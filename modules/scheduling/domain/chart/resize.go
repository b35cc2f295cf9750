package chart

import (
	"math"
	"time"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
)

// Edge names which bar handle is being dragged.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// Session is the transient state of one in-progress bar-edge drag. It exists
// between pointer-down on a handle and the matching pointer-up; at most one
// session is active at a time, owned explicitly by the view layer. A nil
// session is the idle state, and Move/End on it are no-ops.
type Session struct {
	ProjectID string
	TaskID    string
	Edge      Edge
	OriginX   int

	origStart time.Time
	origEnd   time.Time
	curStart  time.Time
	curEnd    time.Time
}

// Commit is the single persistence update issued when a session ends.
type Commit struct {
	ProjectID string
	TaskID    string
	Start     time.Time
	End       time.Time
}

// Begin captures the task's current dates and the pointer origin. An unknown
// task yields no session.
func Begin(p project.Project, taskID string, edge Edge, pointerX int) *Session {
	task, ok := p.Task(taskID)
	if !ok {
		return nil
	}
	start := Midnight(task.Start())
	end := Midnight(task.End())
	return &Session{
		ProjectID: p.ID(),
		TaskID:    task.ID(),
		Edge:      edge,
		OriginX:   pointerX,
		origStart: start,
		origEnd:   end,
		curStart:  start,
		curEnd:    end,
	}
}

// Move recomputes the dragged edge from the pointer's displacement since the
// origin. The delta is always applied to the originally captured dates, so
// repeated moves are idempotent in total displacement rather than cumulative.
// Crossing the stationary edge snaps the dragged edge onto it, collapsing the
// task to zero span instead of inverting it.
func (s *Session) Move(pointerX, cellWidth int) (time.Time, time.Time) {
	if s == nil {
		return time.Time{}, time.Time{}
	}
	deltaDays := int(math.Round(float64(pointerX-s.OriginX) / float64(cellWidth)))
	start, end := s.origStart, s.origEnd
	switch s.Edge {
	case EdgeStart:
		start = s.origStart.AddDate(0, 0, deltaDays)
		if start.After(end) {
			start = end
		}
	case EdgeEnd:
		end = s.origEnd.AddDate(0, 0, deltaDays)
		if end.Before(start) {
			end = start
		}
	}
	s.curStart, s.curEnd = start, end
	return start, end
}

// End yields the commit payload for whatever the last processed move
// produced and retires the session.
func (s *Session) End() (Commit, bool) {
	if s == nil {
		return Commit{}, false
	}
	return Commit{
		ProjectID: s.ProjectID,
		TaskID:    s.TaskID,
		Start:     s.curStart,
		End:       s.curEnd,
	}, true
}

// Dates returns the session's current optimistic dates.
func (s *Session) Dates() (time.Time, time.Time) {
	if s == nil {
		return time.Time{}, time.Time{}
	}
	return s.curStart, s.curEnd
}
