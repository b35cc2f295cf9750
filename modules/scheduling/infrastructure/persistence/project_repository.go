package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/infrastructure/persistence/models"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/repo"
)

var (
	ErrProjectNotFound = gerrors.New("project not found")
)

const (
	selectProjectsQuery = `
		SELECT id, name, client, location, ordering_contact, agent_class, created_at, updated_at
		FROM projects`

	selectTasksQuery = `
		SELECT project_id, id, name, work_category, start_date, end_date, progress, assigned_to, position
		FROM tasks`

	selectManpowerQuery = `
		SELECT project_id, entry_date, required_count, secured_count
		FROM manpower_entries`

	insertProjectQuery = `
		INSERT INTO projects (id, name, client, location, ordering_contact, agent_class)
		VALUES ($1, $2, $3, $4, $5, $6)`

	upsertProjectQuery = `
		INSERT INTO projects (id, name, client, location, ordering_contact, agent_class)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			client = EXCLUDED.client,
			location = EXCLUDED.location,
			ordering_contact = EXCLUDED.ordering_contact,
			agent_class = EXCLUDED.agent_class,
			updated_at = now()`

	updateProjectQuery = `
		UPDATE projects
		SET name = $2, client = $3, location = $4, ordering_contact = $5, agent_class = $6, updated_at = now()
		WHERE id = $1`

	insertTaskQuery = `
		INSERT INTO tasks (project_id, id, name, work_category, start_date, end_date, progress, assigned_to, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	deleteTasksQuery = `DELETE FROM tasks WHERE project_id = $1`

	updateTaskDatesQuery = `
		UPDATE tasks SET start_date = $3, end_date = $4 WHERE project_id = $1 AND id = $2`

	upsertManpowerQuery = `
		INSERT INTO manpower_entries (project_id, entry_date, required_count, secured_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, entry_date) DO UPDATE SET
			required_count = EXCLUDED.required_count,
			secured_count = EXCLUDED.secured_count`

	unassignEmployeeQuery = `
		UPDATE tasks SET assigned_to = array_remove(assigned_to, $1) WHERE $1 = ANY (assigned_to)`
)

type PgProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &PgProjectRepository{}
}

func (r *PgProjectRepository) GetAll(ctx context.Context) ([]project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryProjects(ctx, tx, " ORDER BY id", nil)
}

func (r *PgProjectRepository) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	if params == nil {
		params = &project.FindParams{}
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	return r.queryProjects(ctx, tx, " ORDER BY id LIMIT $1 OFFSET $2", []interface{}{limit, offset})
}

func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	projects, err := r.queryProjects(ctx, tx, " WHERE id = $1", []interface{}{id})
	if err != nil {
		return project.Project{}, err
	}
	if len(projects) == 0 {
		return project.Project{}, ErrProjectNotFound
	}
	return projects[0], nil
}

func (r *PgProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, gerrors.Wrap(err, "failed to check project existence")
	}
	return exists, nil
}

func (r *PgProjectRepository) Create(ctx context.Context, p project.Project) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		insertProjectQuery,
		p.ID(), p.Name(), p.Client(), p.Location(), p.OrderingContact(), p.AgentClass(),
	); err != nil {
		return gerrors.Wrap(err, "failed to insert project")
	}
	return r.insertTasks(ctx, tx, p)
}

func (r *PgProjectRepository) Update(ctx context.Context, p project.Project) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		updateProjectQuery,
		p.ID(), p.Name(), p.Client(), p.Location(), p.OrderingContact(), p.AgentClass(),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update project")
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	// The task list is replaced wholesale on update.
	if _, err := tx.Exec(ctx, deleteTasksQuery, p.ID()); err != nil {
		return gerrors.Wrap(err, "failed to clear tasks")
	}
	return r.insertTasks(ctx, tx, p)
}

func (r *PgProjectRepository) Delete(ctx context.Context, id string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete project")
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *PgProjectRepository) UpdateTaskDates(ctx context.Context, projectID, taskID string, start, end time.Time) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, updateTaskDatesQuery, projectID, taskID, start, end)
	if err != nil {
		return false, gerrors.Wrap(err, "failed to update task dates")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgProjectRepository) BatchUpsert(ctx context.Context, projects []project.Project) error {
	if len(projects) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, p := range projects {
		batch.Queue(
			upsertProjectQuery,
			p.ID(), p.Name(), p.Client(), p.Location(), p.OrderingContact(), p.AgentClass(),
		)
		batch.Queue(deleteTasksQuery, p.ID())
		for _, row := range toTaskRows(p) {
			batch.Queue(
				insertTaskQuery,
				row.ProjectID, row.ID, row.Name, row.WorkCategory,
				row.StartDate, row.EndDate, row.Progress, row.AssignedTo, row.Position,
			)
		}
		for date, entry := range p.Manpower() {
			batch.Queue(upsertManpowerQuery, p.ID(), date, entry.Required, entry.Secured)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return gerrors.Wrap(err, "failed to batch upsert projects")
	}
	return nil
}

func (r *PgProjectRepository) UpsertManpower(ctx context.Context, projectID, date string, entry project.ManpowerEntry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, upsertManpowerQuery, projectID, date, entry.Required, entry.Secured); err != nil {
		if isForeignKeyViolation(err) {
			return ErrProjectNotFound
		}
		return gerrors.Wrap(err, "failed to upsert manpower entry")
	}
	return nil
}

func (r *PgProjectRepository) UnassignEmployee(ctx context.Context, code string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, unassignEmployeeQuery, code); err != nil {
		return gerrors.Wrap(err, "failed to unassign employee")
	}
	return nil
}

func (r *PgProjectRepository) insertTasks(ctx context.Context, tx repo.Tx, p project.Project) error {
	for _, row := range toTaskRows(p) {
		if _, err := tx.Exec(
			ctx,
			insertTaskQuery,
			row.ProjectID, row.ID, row.Name, row.WorkCategory,
			row.StartDate, row.EndDate, row.Progress, row.AssignedTo, row.Position,
		); err != nil {
			return gerrors.Wrap(err, "failed to insert task")
		}
	}
	return nil
}

func (r *PgProjectRepository) queryProjects(ctx context.Context, tx repo.Tx, filter string, args []interface{}) ([]project.Project, error) {
	rows, err := tx.Query(ctx, selectProjectsQuery+filter, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query projects")
	}
	defer rows.Close()

	var projectRows []models.Project
	for rows.Next() {
		var row models.Project
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Client, &row.Location,
			&row.OrderingContact, &row.AgentClass, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan project")
		}
		projectRows = append(projectRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(projectRows) == 0 {
		return []project.Project{}, nil
	}

	ids := make([]string, 0, len(projectRows))
	for _, row := range projectRows {
		ids = append(ids, row.ID)
	}
	tasksByProject, err := r.queryTasks(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	manpowerByProject, err := r.queryManpower(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	projects := make([]project.Project, 0, len(projectRows))
	for _, row := range projectRows {
		projects = append(projects, toDomainProject(row, tasksByProject[row.ID], manpowerByProject[row.ID]))
	}
	return projects, nil
}

func (r *PgProjectRepository) queryTasks(ctx context.Context, tx repo.Tx, projectIDs []string) (map[string][]models.Task, error) {
	rows, err := tx.Query(ctx, selectTasksQuery+` WHERE project_id = ANY ($1) ORDER BY project_id, position`, projectIDs)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query tasks")
	}
	defer rows.Close()

	out := map[string][]models.Task{}
	for rows.Next() {
		var row models.Task
		if err := rows.Scan(
			&row.ProjectID, &row.ID, &row.Name, &row.WorkCategory,
			&row.StartDate, &row.EndDate, &row.Progress, &row.AssignedTo, &row.Position,
		); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan task")
		}
		out[row.ProjectID] = append(out[row.ProjectID], row)
	}
	return out, rows.Err()
}

func (r *PgProjectRepository) queryManpower(ctx context.Context, tx repo.Tx, projectIDs []string) (map[string][]models.ManpowerEntry, error) {
	rows, err := tx.Query(ctx, selectManpowerQuery+` WHERE project_id = ANY ($1)`, projectIDs)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query manpower entries")
	}
	defer rows.Close()

	out := map[string][]models.ManpowerEntry{}
	for rows.Next() {
		var row models.ManpowerEntry
		if err := rows.Scan(&row.ProjectID, &row.EntryDate, &row.RequiredCount, &row.SecuredCount); err != nil {
			return nil, gerrors.Wrap(err, "failed to scan manpower entry")
		}
		out[row.ProjectID] = append(out[row.ProjectID], row)
	}
	return out, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23503"
	}
	return false
}
