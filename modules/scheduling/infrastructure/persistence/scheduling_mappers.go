package persistence

import (
	"time"

	"github.com/yamato-denko/koutei/modules/scheduling/domain/aggregates/project"
	"github.com/yamato-denko/koutei/modules/scheduling/infrastructure/persistence/models"
)

func toDomainTask(row models.Task) project.Task {
	category, ok := project.ParseWorkCategory(row.WorkCategory)
	if !ok {
		category = project.WorkGeneral
	}
	var start, end time.Time
	if row.StartDate != nil {
		start = *row.StartDate
	}
	if row.EndDate != nil {
		end = *row.EndDate
	}
	return project.HydrateTask(
		row.ID,
		row.Name,
		category,
		start,
		end,
		row.Progress,
		row.AssignedTo,
	)
}

func toDomainProject(row models.Project, tasks []models.Task, manpower []models.ManpowerEntry) project.Project {
	domainTasks := make([]project.Task, 0, len(tasks))
	for _, t := range tasks {
		domainTasks = append(domainTasks, toDomainTask(t))
	}
	entries := make(map[string]project.ManpowerEntry, len(manpower))
	for _, m := range manpower {
		entries[m.EntryDate.Format(project.DateLayout)] = project.ManpowerEntry{
			Required: m.RequiredCount,
			Secured:  m.SecuredCount,
		}
	}
	return project.Hydrate(
		row.ID,
		row.Name,
		row.Client,
		row.Location,
		row.OrderingContact,
		row.AgentClass,
		domainTasks,
		entries,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toTaskRows(p project.Project) []models.Task {
	rows := make([]models.Task, 0, len(p.Tasks()))
	for i, t := range p.Tasks() {
		row := models.Task{
			ProjectID:    p.ID(),
			ID:           t.ID(),
			Name:         t.Name(),
			WorkCategory: string(t.Category()),
			Progress:     t.Progress(),
			AssignedTo:   t.Assignees(),
			Position:     i,
		}
		if !t.Start().IsZero() {
			start := t.Start()
			row.StartDate = &start
		}
		if !t.End().IsZero() {
			end := t.End()
			row.EndDate = &end
		}
		if row.AssignedTo == nil {
			row.AssignedTo = []string{}
		}
		rows = append(rows, row)
	}
	return rows
}
