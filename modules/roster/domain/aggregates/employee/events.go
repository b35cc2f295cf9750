package employee

type CreatedEvent struct {
	Result Employee
}

type UpdatedEvent struct {
	Result Employee
}

type DeletedEvent struct {
	Result Employee
}

type ImportedEvent struct {
	Count int
}

type BulkSavedEvent struct {
	Count int
}

func NewCreatedEvent(result Employee) *CreatedEvent {
	return &CreatedEvent{Result: result}
}

func NewUpdatedEvent(result Employee) *UpdatedEvent {
	return &UpdatedEvent{Result: result}
}

func NewDeletedEvent(result Employee) *DeletedEvent {
	return &DeletedEvent{Result: result}
}
