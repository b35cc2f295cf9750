package project

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage form of all calendar dates.
const DateLayout = "2006-01-02"

type WorkCategory string

const (
	WorkGeneral     WorkCategory = "general"
	WorkPowerOutage WorkCategory = "power_outage"
	WorkLiveLine    WorkCategory = "live_line"
)

// ParseWorkCategory accepts both the wire form and the Japanese display
// label found in imported spreadsheets.
func ParseWorkCategory(v string) (WorkCategory, bool) {
	switch strings.TrimSpace(v) {
	case string(WorkGeneral), "一般作業":
		return WorkGeneral, true
	case string(WorkPowerOutage), "停電作業":
		return WorkPowerOutage, true
	case string(WorkLiveLine), "活線作業":
		return WorkLiveLine, true
	}
	return "", false
}

// Label is the display form used in exported tables.
func (c WorkCategory) Label() string {
	switch c {
	case WorkPowerOutage:
		return "停電作業"
	case WorkLiveLine:
		return "活線作業"
	default:
		return "一般作業"
	}
}

// ManpowerEntry is the required vs secured headcount for one calendar date.
// Keyed by date string on the owning project, independent of tasks.
type ManpowerEntry struct {
	Required int
	Secured  int
}

type Task struct {
	id        string
	name      string
	category  WorkCategory
	start     time.Time
	end       time.Time
	progress  int
	assignees []string
}

func NewTask(id, name string, category WorkCategory, start, end time.Time) Task {
	return Task{
		id:       strings.TrimSpace(id),
		name:     strings.TrimSpace(name),
		category: category,
		start:    start,
		end:      end,
	}
}

func HydrateTask(
	id string,
	name string,
	category WorkCategory,
	start time.Time,
	end time.Time,
	progress int,
	assignees []string,
) Task {
	return Task{
		id:        id,
		name:      name,
		category:  category,
		start:     start,
		end:       end,
		progress:  progress,
		assignees: assignees,
	}
}

func (t Task) ID() string             { return t.id }
func (t Task) Name() string           { return t.name }
func (t Task) Category() WorkCategory { return t.category }
func (t Task) Start() time.Time       { return t.start }
func (t Task) End() time.Time         { return t.end }
func (t Task) Progress() int          { return t.progress }
func (t Task) Assignees() []string    { return t.assignees }

func (t Task) WithDates(start, end time.Time) Task {
	t.start = start
	t.end = end
	return t
}

func (t Task) WithAssignees(assignees []string) Task {
	t.assignees = assignees
	return t
}

type Project struct {
	id              string
	name            string
	client          string
	location        string
	orderingContact string
	agentClass      string
	tasks           []Task
	manpower        map[string]ManpowerEntry
	createdAt       time.Time
	updatedAt       time.Time
}

func New(id, name, client, location, orderingContact, agentClass string, tasks []Task) Project {
	return Project{
		id:              strings.TrimSpace(id),
		name:            strings.TrimSpace(name),
		client:          strings.TrimSpace(client),
		location:        strings.TrimSpace(location),
		orderingContact: strings.TrimSpace(orderingContact),
		agentClass:      strings.TrimSpace(agentClass),
		tasks:           tasks,
		manpower:        map[string]ManpowerEntry{},
	}
}

func Hydrate(
	id string,
	name string,
	client string,
	location string,
	orderingContact string,
	agentClass string,
	tasks []Task,
	manpower map[string]ManpowerEntry,
	createdAt time.Time,
	updatedAt time.Time,
) Project {
	if manpower == nil {
		manpower = map[string]ManpowerEntry{}
	}
	return Project{
		id:              id,
		name:            name,
		client:          client,
		location:        location,
		orderingContact: orderingContact,
		agentClass:      agentClass,
		tasks:           tasks,
		manpower:        manpower,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (p Project) ID() string                         { return p.id }
func (p Project) Name() string                       { return p.name }
func (p Project) Client() string                     { return p.client }
func (p Project) Location() string                   { return p.location }
func (p Project) OrderingContact() string            { return p.orderingContact }
func (p Project) AgentClass() string                 { return p.agentClass }
func (p Project) Tasks() []Task                      { return p.tasks }
func (p Project) Manpower() map[string]ManpowerEntry { return p.manpower }
func (p Project) CreatedAt() time.Time               { return p.createdAt }
func (p Project) UpdatedAt() time.Time               { return p.updatedAt }
func (p Project) IsZero() bool                       { return p.id == "" }

// Task returns the task with the given id, if present.
func (p Project) Task(taskID string) (Task, bool) {
	for _, t := range p.tasks {
		if t.id == taskID {
			return t, true
		}
	}
	return Task{}, false
}

// PrimaryTask is the first task, which shares the project's id and mirrors
// its contract period.
func (p Project) PrimaryTask() (Task, bool) {
	if len(p.tasks) == 0 {
		return Task{}, false
	}
	return p.tasks[0], true
}
