package project

import "time"

type CreatedEvent struct {
	Result Project
}

type UpdatedEvent struct {
	Result Project
}

type DeletedEvent struct {
	Result Project
}

type TaskDatesUpdatedEvent struct {
	ProjectID string
	TaskID    string
	Start     time.Time
	End       time.Time
}

type SeededEvent struct {
	Count int
}

type ManpowerUpdatedEvent struct {
	ProjectID string
	Date      string
	Entry     ManpowerEntry
}

func NewCreatedEvent(result Project) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result Project) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(result Project) *DeletedEvent {
	return &DeletedEvent{Result: result}
}
