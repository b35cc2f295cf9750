package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/domain/chart"
	"github.com/yamato-denko/koutei/pkg/composables"
	"github.com/yamato-denko/koutei/pkg/csvio"
	"github.com/yamato-denko/koutei/pkg/excel"
)

// Export filenames follow the view titles.
const (
	ProjectListingFilename     = "工事一覧表.csv"
	ScheduleFilename           = "全体工程表.csv"
	StaffingFilename           = "人員配置表.csv"
	IndividualFilename         = "個人別日程表.csv"
	ProjectListingXLSXFilename = "工事一覧表.xlsx"
)

// EmployeeRef is the slice of the roster the individual schedule export
// needs: a code to match assignments and a display name.
type EmployeeRef struct {
	Code string
	Name string
}

type ExportService struct {
	repo  project.Repository
	clock clockwork.Clock
}

func NewExportService(repo project.Repository, clock clockwork.Clock) *ExportService {
	return &ExportService{
		repo:  repo,
		clock: clock,
	}
}

// ProjectListing renders the project registry table.
func (s *ExportService) ProjectListing(ctx context.Context) (string, error) {
	projects, err := s.getAll(ctx)
	if err != nil {
		return "", err
	}
	return csvio.Export(projectListingHeaders(), projectListingRows(projects)), nil
}

// ProjectListingXLSX renders the same table as a workbook.
func (s *ExportService) ProjectListingXLSX(ctx context.Context) ([]byte, error) {
	projects, err := s.getAll(ctx)
	if err != nil {
		return nil, err
	}
	return excel.NewTableExporter("工事一覧表").Export(projectListingHeaders(), projectListingRows(projects))
}

// Schedule renders every task of every project with its assignees resolved
// to display names through the given lookup.
func (s *ExportService) Schedule(ctx context.Context, names map[string]string) (string, error) {
	projects, err := s.getAll(ctx)
	if err != nil {
		return "", err
	}
	headers := []string{"工事名", "タスク名", "作業区分", "開始日", "終了日", "進捗 (%)", "担当者"}
	var rows [][]string
	for _, p := range projects {
		for _, t := range p.Tasks() {
			assignees := make([]string, 0, len(t.Assignees()))
			for _, code := range t.Assignees() {
				if name, ok := names[code]; ok {
					assignees = append(assignees, name)
				} else {
					assignees = append(assignees, code)
				}
			}
			rows = append(rows, []string{
				p.Name(),
				t.Name(),
				t.Category().Label(),
				formatDate(t.Start()),
				formatDate(t.End()),
				strconv.Itoa(t.Progress()),
				strings.Join(assignees, ", "),
			})
		}
	}
	return csvio.Export(headers, rows), nil
}

// Staffing renders the required/secured headcount per project per grid day.
func (s *ExportService) Staffing(ctx context.Context) (string, error) {
	projects, err := s.getAll(ctx)
	if err != nil {
		return "", err
	}
	grid := chart.BuildDateGrid(projects, s.clock)

	headers := append([]string{"工事名"}, gridHeaders(grid)...)
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		row := make([]string, 0, len(headers))
		row = append(row, p.Name())
		for _, day := range grid.Days {
			if entry, ok := p.Manpower()[day.Format(project.DateLayout)]; ok {
				row = append(row, fmt.Sprintf("%d/%d", entry.Required, entry.Secured))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return csvio.Export(headers, rows), nil
}

// IndividualSchedule renders, per employee, the projects occupying each grid
// day.
func (s *ExportService) IndividualSchedule(ctx context.Context, employees []EmployeeRef) (string, error) {
	projects, err := s.getAll(ctx)
	if err != nil {
		return "", err
	}
	grid := chart.BuildDateGrid(projects, s.clock)

	headers := append([]string{"個人名"}, gridHeaders(grid)...)
	rows := make([][]string, 0, len(employees))
	for _, emp := range employees {
		row := make([]string, 0, len(headers))
		row = append(row, emp.Name)
		for _, day := range grid.Days {
			row = append(row, occupationsOn(projects, emp.Code, day))
		}
		rows = append(rows, row)
	}
	return csvio.Export(headers, rows), nil
}

func (s *ExportService) getAll(ctx context.Context) ([]project.Project, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.repo.GetAll(txCtx)
	})
}

func projectListingHeaders() []string {
	return []string{"工事ID", "工事名", "発注者", "場所", "工期（開始）", "工期（終了）", "発注担当"}
}

func projectListingRows(projects []project.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		var start, end string
		if primary, ok := p.PrimaryTask(); ok {
			start = formatDate(primary.Start())
			end = formatDate(primary.End())
		}
		rows = append(rows, []string{p.ID(), p.Name(), p.Client(), p.Location(), start, end, p.OrderingContact()})
	}
	return rows
}

// gridHeaders uses the unpadded Y/M/D form spreadsheet users expect.
func gridHeaders(grid chart.DateGrid) []string {
	out := make([]string, 0, len(grid.Days))
	for _, day := range grid.Days {
		out = append(out, fmt.Sprintf("%d/%d/%d", day.Year(), int(day.Month()), day.Day()))
	}
	return out
}

func occupationsOn(projects []project.Project, code string, day time.Time) string {
	var names []string
	for _, p := range projects {
		for _, t := range p.Tasks() {
			if t.Start().IsZero() || t.End().IsZero() {
				continue
			}
			if !assigned(t, code) {
				continue
			}
			if !day.Before(chart.Midnight(t.Start())) && !day.After(chart.Midnight(t.End())) {
				names = append(names, "["+p.Name()+"]")
			}
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func assigned(t project.Task, code string) bool {
	for _, c := range t.Assignees() {
		if c == code {
			return true
		}
	}
	return false
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(project.DateLayout)
}
