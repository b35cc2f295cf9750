package viewmodels

type ManpowerEntry struct {
	Required int `json:"required"`
	Secured  int `json:"secured"`
}

type Task struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	WorkCategory string   `json:"work_category"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Progress     int      `json:"progress"`
	AssignedTo   []string `json:"assigned_to"`
}

type Project struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Client          string                   `json:"client"`
	Location        string                   `json:"location"`
	OrderingContact string                   `json:"ordering_contact"`
	AgentClass      string                   `json:"agent_class"`
	Tasks           []Task                   `json:"tasks"`
	Manpower        map[string]ManpowerEntry `json:"manpower"`
}

type Bar struct {
	OffsetPx int `json:"offset_px"`
	WidthPx  int `json:"width_px"`
}

type ChartTask struct {
	Task
	Bar Bar `json:"bar"`
}

type ChartProject struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Tasks []ChartTask `json:"tasks"`
}

// Chart is one full frame of the Gantt view.
type Chart struct {
	Dates     []string       `json:"dates"`
	MinDate   string         `json:"min_date"`
	CellWidth int            `json:"cell_width"`
	Projects  []ChartProject `json:"projects"`
}
