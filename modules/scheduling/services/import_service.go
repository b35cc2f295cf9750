package services

import (
	"context"
	"strings"
	"time"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/csvio"
	"github.com/yamato-denko/koutei/pkg/eventbus"
)

// Column names of the source spreadsheets.
const (
	colProjectID    = "工事ID"
	colProjectName  = "工事名"
	colClient       = "発注者"
	colLocation     = "場所"
	colContact      = "発注担当"
	colAgentClass   = "代理人区分"
	colPeriodStart  = "工期（開始）"
	colPeriodEnd    = "工期（終了）"
	colEmployeeCode = "社員番号"
)

// TransformProjects joins the three flat tables into domain projects. Rows
// missing an id or either period date are silently dropped. Each project gets
// a single primary task sharing its id, with the assignment history joined in
// as the assignee list, de-duplicated preserving first appearance. The
// employee table carries no project fields; assignee codes stay soft
// references whether or not the roster knows them.
func TransformProjects(projectRows, _, historyRows []csvio.Row) []project.Project {
	assigneesByProject := map[string][]string{}
	for _, row := range historyRows {
		id := row[colProjectID]
		if id == "" {
			continue
		}
		assigneesByProject[id] = append(assigneesByProject[id], row[colEmployeeCode])
	}

	projects := make([]project.Project, 0, len(projectRows))
	for _, row := range projectRows {
		id := row[colProjectID]
		startRaw := row[colPeriodStart]
		endRaw := row[colPeriodEnd]
		if id == "" || startRaw == "" || endRaw == "" {
			continue
		}
		start, err := parseFlexibleDate(startRaw)
		if err != nil {
			continue
		}
		end, err := parseFlexibleDate(endRaw)
		if err != nil {
			continue
		}

		task := project.NewTask(id, row[colProjectName], project.WorkGeneral, start, end).
			WithAssignees(dedupe(assigneesByProject[id]))
		projects = append(projects, project.New(
			id,
			row[colProjectName],
			row[colClient],
			row[colLocation],
			row[colContact],
			row[colAgentClass],
			[]project.Task{task},
		))
	}
	return projects
}

// SeedFixtures are the bundled source documents the seed operation loads.
type SeedFixtures struct {
	ProjectsCSV  string
	EmployeesCSV string
	HistoryCSV   string
}

type ImportService struct {
	repo      project.Repository
	publisher eventbus.EventBus
	fixtures  SeedFixtures
}

func NewImportService(repo project.Repository, publisher eventbus.EventBus, fixtures SeedFixtures) *ImportService {
	return &ImportService{
		repo:      repo,
		publisher: publisher,
		fixtures:  fixtures,
	}
}

// Seed loads the bundled fixtures, overwriting projects with the same id.
func (s *ImportService) Seed(ctx context.Context) (int, error) {
	return s.SeedFrom(ctx, s.fixtures.ProjectsCSV, s.fixtures.EmployeesCSV, s.fixtures.HistoryCSV)
}

// SeedFrom parses the three source CSV documents, transforms them and writes
// all resulting projects in one batch.
func (s *ImportService) SeedFrom(ctx context.Context, projectsCSV, employeesCSV, historyCSV string) (int, error) {
	projectRows, err := csvio.Parse(projectsCSV)
	if err != nil {
		return 0, err
	}
	employeeRows, err := csvio.Parse(employeesCSV)
	if err != nil {
		return 0, err
	}
	historyRows, err := csvio.Parse(historyCSV)
	if err != nil {
		return 0, err
	}

	projects := TransformProjects(projectRows, employeeRows, historyRows)
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.BatchUpsert(txCtx, projects)
	})
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(&project.SeededEvent{Count: len(projects)})
	return len(projects), nil
}

// parseFlexibleDate accepts slash or hyphen delimited dates; slashes are the
// common spreadsheet form.
func parseFlexibleDate(v string) (time.Time, error) {
	return time.Parse(project.DateLayout, strings.ReplaceAll(v, "/", "-"))
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
