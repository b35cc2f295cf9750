package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/pkg/constants"
)

type mockProjectRepo struct {
	projects map[string]project.Project

	created          []project.Project
	updatedTaskDates []struct {
		ProjectID, TaskID string
		Start, End        time.Time
	}
	taskDatesResult bool
	batched         [][]project.Project
	unassigned      []string
	paginated       []*project.FindParams
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: map[string]project.Project{}, taskDatesResult: true}
}

func (m *mockProjectRepo) GetAll(ctx context.Context) ([]project.Project, error) {
	out := make([]project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectRepo) GetPaginated(ctx context.Context, params *project.FindParams) ([]project.Project, error) {
	m.paginated = append(m.paginated, params)
	return m.GetAll(ctx)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id string) (project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return project.Project{}, assert.AnError
	}
	return p, nil
}

func (m *mockProjectRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.projects[id]
	return ok, nil
}

func (m *mockProjectRepo) Create(ctx context.Context, p project.Project) error {
	m.created = append(m.created, p)
	m.projects[p.ID()] = p
	return nil
}

func (m *mockProjectRepo) Update(ctx context.Context, p project.Project) error {
	m.projects[p.ID()] = p
	return nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) UpdateTaskDates(ctx context.Context, projectID, taskID string, start, end time.Time) (bool, error) {
	m.updatedTaskDates = append(m.updatedTaskDates, struct {
		ProjectID, TaskID string
		Start, End        time.Time
	}{projectID, taskID, start, end})
	return m.taskDatesResult, nil
}

func (m *mockProjectRepo) BatchUpsert(ctx context.Context, projects []project.Project) error {
	m.batched = append(m.batched, projects)
	for _, p := range projects {
		m.projects[p.ID()] = p
	}
	return nil
}

func (m *mockProjectRepo) UpsertManpower(ctx context.Context, projectID, date string, entry project.ManpowerEntry) error {
	return nil
}

func (m *mockProjectRepo) UnassignEmployee(ctx context.Context, code string) error {
	m.unassigned = append(m.unassigned, code)
	return nil
}

type countingPublisher struct {
	events []interface{}
}

func (p *countingPublisher) Publish(args ...interface{})     { p.events = append(p.events, args...) }
func (p *countingPublisher) Subscribe(handler interface{})   {}
func (p *countingPublisher) Unsubscribe(handler interface{}) {}
func (p *countingPublisher) Clear()                          {}
func (p *countingPublisher) SubscribersCount() int           { return 0 }

// txContext satisfies the transaction composables; mock repos never touch
// the stored value.
func txContext() context.Context {
	return context.WithValue(context.Background(), constants.TxKey, struct{}{})
}

func TestProjectService_CreateRejectsTakenID(t *testing.T) {
	repo := newMockProjectRepo()
	repo.projects["K-1"] = project.New("K-1", "existing", "", "", "", "", nil)
	svc := NewProjectService(repo, &countingPublisher{})

	_, err := svc.Create(txContext(), &project.CreateDTO{
		ID:        "K-1",
		Name:      "duplicate",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})

	require.ErrorIs(t, err, ErrProjectIDTaken)
	assert.Empty(t, repo.created, "nothing written on duplicate id")
}

func TestProjectService_CreateBuildsPrimaryTask(t *testing.T) {
	repo := newMockProjectRepo()
	publisher := &countingPublisher{}
	svc := NewProjectService(repo, publisher)

	created, err := svc.Create(txContext(), &project.CreateDTO{
		ID:        "K-2",
		Name:      "鉄塔建替",
		Client:    "中電",
		StartDate: "2024-03-01",
		EndDate:   "2024-05-31",
	})

	require.NoError(t, err)
	primary, ok := created.PrimaryTask()
	require.True(t, ok)
	assert.Equal(t, "K-2", primary.ID())
	assert.Equal(t, project.WorkGeneral, primary.Category())
	require.Len(t, publisher.events, 1)
	assert.IsType(t, &project.CreatedEvent{}, publisher.events[0])
}

func TestProjectService_CommitTaskDatesIssuesSingleUpdate(t *testing.T) {
	repo := newMockProjectRepo()
	publisher := &countingPublisher{}
	svc := NewProjectService(repo, publisher)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)
	updated, err := svc.CommitTaskDates(txContext(), "K-1", "K-1", start, end)

	require.NoError(t, err)
	assert.True(t, updated)
	require.Len(t, repo.updatedTaskDates, 1)
	assert.Equal(t, start, repo.updatedTaskDates[0].Start)
	assert.Equal(t, end, repo.updatedTaskDates[0].End)
	require.Len(t, publisher.events, 1)
	assert.IsType(t, &project.TaskDatesUpdatedEvent{}, publisher.events[0])
}

func TestProjectService_CommitTaskDatesVanishedTaskIsSilent(t *testing.T) {
	repo := newMockProjectRepo()
	repo.taskDatesResult = false
	publisher := &countingPublisher{}
	svc := NewProjectService(repo, publisher)

	updated, err := svc.CommitTaskDates(txContext(), "K-1", "gone", time.Now(), time.Now())

	require.NoError(t, err, "missing task is a no-op, not an error")
	assert.False(t, updated)
	assert.Empty(t, publisher.events)
}

func TestProjectService_CommitTaskDatesClampsInvertedRange(t *testing.T) {
	repo := newMockProjectRepo()
	svc := NewProjectService(repo, &countingPublisher{})

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.CommitTaskDates(txContext(), "K-1", "K-1", start, end)

	require.NoError(t, err)
	require.Len(t, repo.updatedTaskDates, 1)
	assert.Equal(t, start, repo.updatedTaskDates[0].End, "end clamped to start")
}

func TestProjectService_GetPaginatedPassesParams(t *testing.T) {
	repo := newMockProjectRepo()
	repo.projects["K-1"] = project.New("K-1", "existing", "", "", "", "", nil)
	svc := NewProjectService(repo, &countingPublisher{})

	params := &project.FindParams{Limit: 20, Offset: 40}
	projects, err := svc.GetPaginated(txContext(), params)

	require.NoError(t, err)
	assert.Len(t, projects, 1)
	require.Len(t, repo.paginated, 1)
	assert.Equal(t, params, repo.paginated[0])
}

func TestProjectService_UnassignEmployee(t *testing.T) {
	repo := newMockProjectRepo()
	svc := NewProjectService(repo, &countingPublisher{})

	require.NoError(t, svc.UnassignEmployee(txContext(), "1001"))
	assert.Equal(t, []string{"1001"}, repo.unassigned)
}
