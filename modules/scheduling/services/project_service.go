package services

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/eventbus"
)

var (
	ErrProjectIDTaken = gerrors.New("project id already in use")
)

type ProjectService struct {
	repo      project.Repository
	publisher eventbus.EventBus
}

func NewProjectService(repo project.Repository, publisher eventbus.EventBus) *ProjectService {
	return &ProjectService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ProjectService) GetAll(ctx context.Context) ([]project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *ProjectService) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *ProjectService) Create(ctx context.Context, data *project.CreateDTO) (project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		taken, err := s.repo.Exists(txCtx, data.ID)
		if err != nil {
			return project.Project{}, err
		}
		if taken {
			return project.Project{}, ErrProjectIDTaken
		}
		entity, err := data.ToEntity()
		if err != nil {
			return project.Project{}, err
		}
		if err := s.repo.Create(txCtx, entity); err != nil {
			return project.Project{}, err
		}
		s.publisher.Publish(project.NewCreatedEvent(entity))
		return entity, nil
	})
}

func (s *ProjectService) Update(ctx context.Context, id string, data *project.UpdateDTO) (project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return project.Project{}, err
		}
		entity, err := data.Apply(existing)
		if err != nil {
			return project.Project{}, err
		}
		if err := s.repo.Update(txCtx, entity); err != nil {
			return project.Project{}, err
		}
		s.publisher.Publish(project.NewUpdatedEvent(entity))
		return entity, nil
	})
}

func (s *ProjectService) Delete(ctx context.Context, id string) (project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (project.Project, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return project.Project{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return project.Project{}, err
		}
		s.publisher.Publish(project.NewDeletedEvent(entity))
		return entity, nil
	})
}

// CommitTaskDates persists a resize commit. A vanished task is a silent
// no-op and reports updated=false. End is clamped to start so the stored
// range can never invert.
func (s *ProjectService) CommitTaskDates(ctx context.Context, projectID, taskID string, start, end time.Time) (bool, error) {
	if end.Before(start) {
		end = start
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (bool, error) {
		updated, err := s.repo.UpdateTaskDates(txCtx, projectID, taskID, start, end)
		if err != nil {
			return false, err
		}
		if updated {
			s.publisher.Publish(&project.TaskDatesUpdatedEvent{
				ProjectID: projectID,
				TaskID:    taskID,
				Start:     start,
				End:       end,
			})
		}
		return updated, nil
	})
}

func (s *ProjectService) UpsertManpower(ctx context.Context, projectID string, data *project.ManpowerDTO) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		entry := project.ManpowerEntry{Required: data.Required, Secured: data.Secured}
		if err := s.repo.UpsertManpower(txCtx, projectID, data.Date, entry); err != nil {
			return err
		}
		s.publisher.Publish(&project.ManpowerUpdatedEvent{
			ProjectID: projectID,
			Date:      data.Date,
			Entry:     entry,
		})
		return nil
	})
}

// UnassignEmployee strips the employee code from every task referencing it.
// Runs in the caller's transaction so the roster delete and the cleanup
// commit together.
func (s *ProjectService) UnassignEmployee(ctx context.Context, code string) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.UnassignEmployee(txCtx, code)
	})
}
