package project

import (
	"context"
	"time"
)

type FindParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	GetAll(ctx context.Context) ([]Project, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, p Project) error
	Update(ctx context.Context, p Project) error
	Delete(ctx context.Context, id string) error

	// UpdateTaskDates persists a resize commit for exactly one task. Returns
	// false without error when the task no longer exists.
	UpdateTaskDates(ctx context.Context, projectID, taskID string, start, end time.Time) (bool, error)

	// BatchUpsert writes all projects in one batch, replacing existing rows
	// with the same id.
	BatchUpsert(ctx context.Context, projects []Project) error

	UpsertManpower(ctx context.Context, projectID, date string, entry ManpowerEntry) error

	// UnassignEmployee removes the employee code from every task referencing it.
	UnassignEmployee(ctx context.Context, code string) error
}
