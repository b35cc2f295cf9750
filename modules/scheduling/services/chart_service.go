package services

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/domain/chart"
	"github.com/yamato-denko/koutei/pkg/composables"
)

// ChartData is everything the board needs to render one frame of the Gantt
// view: the derived date grid plus per-task bar geometry.
type ChartData struct {
	Grid      chart.DateGrid
	Projects  []project.Project
	Bars      map[string]map[string]chart.BarGeometry
	CellWidth int
}

type ChartService struct {
	repo      project.Repository
	clock     clockwork.Clock
	cellWidth int
}

func NewChartService(repo project.Repository, clock clockwork.Clock, cellWidth int) *ChartService {
	if cellWidth <= 0 {
		cellWidth = chart.DefaultCellWidth
	}
	return &ChartService{
		repo:      repo,
		clock:     clock,
		cellWidth: cellWidth,
	}
}

func (s *ChartService) CellWidth() int {
	return s.cellWidth
}

// ChartData recomputes the grid and geometry from scratch. Derivation is
// pure, so calling it on every snapshot change is safe.
func (s *ChartService) ChartData(ctx context.Context) (ChartData, error) {
	projects, err := composables.InTxResult(ctx, func(txCtx context.Context) ([]project.Project, error) {
		return s.repo.GetAll(txCtx)
	})
	if err != nil {
		return ChartData{}, err
	}

	grid := chart.BuildDateGrid(projects, s.clock)
	bars := make(map[string]map[string]chart.BarGeometry, len(projects))
	for _, p := range projects {
		taskBars := make(map[string]chart.BarGeometry, len(p.Tasks()))
		for _, t := range p.Tasks() {
			taskBars[t.ID()] = chart.BarFor(t.Start(), t.End(), grid.Min(), s.cellWidth)
		}
		bars[p.ID()] = taskBars
	}

	return ChartData{
		Grid:      grid,
		Projects:  projects,
		Bars:      bars,
		CellWidth: s.cellWidth,
	}, nil
}
