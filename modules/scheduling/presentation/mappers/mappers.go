package mappers

import (
	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/presentation/viewmodels"
	"github.com/yamato-denko/koutei/modules/scheduling/services"
)

func TaskToViewModel(t project.Task) viewmodels.Task {
	assignees := t.Assignees()
	if assignees == nil {
		assignees = []string{}
	}
	vm := viewmodels.Task{
		ID:           t.ID(),
		Name:         t.Name(),
		WorkCategory: string(t.Category()),
		Progress:     t.Progress(),
		AssignedTo:   assignees,
	}
	if !t.Start().IsZero() {
		vm.StartDate = t.Start().Format(project.DateLayout)
	}
	if !t.End().IsZero() {
		vm.EndDate = t.End().Format(project.DateLayout)
	}
	return vm
}

func ProjectToViewModel(p project.Project) viewmodels.Project {
	tasks := make([]viewmodels.Task, 0, len(p.Tasks()))
	for _, t := range p.Tasks() {
		tasks = append(tasks, TaskToViewModel(t))
	}
	manpower := make(map[string]viewmodels.ManpowerEntry, len(p.Manpower()))
	for date, entry := range p.Manpower() {
		manpower[date] = viewmodels.ManpowerEntry{Required: entry.Required, Secured: entry.Secured}
	}
	return viewmodels.Project{
		ID:              p.ID(),
		Name:            p.Name(),
		Client:          p.Client(),
		Location:        p.Location(),
		OrderingContact: p.OrderingContact(),
		AgentClass:      p.AgentClass(),
		Tasks:           tasks,
		Manpower:        manpower,
	}
}

func ProjectsToViewModels(projects []project.Project) []viewmodels.Project {
	out := make([]viewmodels.Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectToViewModel(p))
	}
	return out
}

func ChartToViewModel(data services.ChartData) viewmodels.Chart {
	dates := make([]string, 0, len(data.Grid.Days))
	for _, day := range data.Grid.Days {
		dates = append(dates, day.Format(project.DateLayout))
	}

	projects := make([]viewmodels.ChartProject, 0, len(data.Projects))
	for _, p := range data.Projects {
		tasks := make([]viewmodels.ChartTask, 0, len(p.Tasks()))
		for _, t := range p.Tasks() {
			bar := data.Bars[p.ID()][t.ID()]
			tasks = append(tasks, viewmodels.ChartTask{
				Task: TaskToViewModel(t),
				Bar:  viewmodels.Bar{OffsetPx: bar.OffsetPx, WidthPx: bar.WidthPx},
			})
		}
		projects = append(projects, viewmodels.ChartProject{
			ID:    p.ID(),
			Name:  p.Name(),
			Tasks: tasks,
		})
	}

	vm := viewmodels.Chart{
		Dates:     dates,
		CellWidth: data.CellWidth,
		Projects:  projects,
	}
	if len(dates) > 0 {
		vm.MinDate = dates[0]
	}
	return vm
}
