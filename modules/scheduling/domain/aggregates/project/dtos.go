package project

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yamato-denko/koutei/pkg/constants"
)

type CreateDTO struct {
	ID              string `json:"id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Client          string `json:"client"`
	Location        string `json:"location"`
	OrderingContact string `json:"ordering_contact"`
	AgentClass      string `json:"agent_class"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	WorkCategory    string `json:"work_category"`
}

type UpdateDTO struct {
	Name            string `json:"name" validate:"required"`
	Client          string `json:"client"`
	Location        string `json:"location"`
	OrderingContact string `json:"ordering_contact"`
	AgentClass      string `json:"agent_class"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type TaskDatesDTO struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type ManpowerDTO struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Required int    `json:"required" validate:"min=0"`
	Secured  int    `json:"secured" validate:"min=0"`
}

func (d *CreateDTO) Normalize() {
	d.ID = strings.TrimSpace(d.ID)
	d.Name = strings.TrimSpace(d.Name)
	d.Client = strings.TrimSpace(d.Client)
	d.Location = strings.TrimSpace(d.Location)
	d.OrderingContact = strings.TrimSpace(d.OrderingContact)
	d.AgentClass = strings.TrimSpace(d.AgentClass)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

// ToEntity builds the project with its primary task mirroring the contract
// period. The primary task shares the project's id.
func (d *CreateDTO) ToEntity() (Project, error) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return Project{}, err
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return Project{}, err
	}
	category, ok := ParseWorkCategory(d.WorkCategory)
	if !ok {
		category = WorkGeneral
	}
	primary := NewTask(d.ID, d.Name, category, start, end)
	return New(d.ID, d.Name, d.Client, d.Location, d.OrderingContact, d.AgentClass, []Task{primary}), nil
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Name = strings.TrimSpace(d.Name)
	return validateStruct(d)
}

// Apply updates the editable fields and shifts the primary task's period to
// the new contract dates. Task ids never change.
func (d *UpdateDTO) Apply(existing Project) (Project, error) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return Project{}, err
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return Project{}, err
	}
	tasks := existing.Tasks()
	if len(tasks) > 0 {
		tasks[0] = tasks[0].WithDates(start, end)
	}
	return Hydrate(
		existing.ID(),
		strings.TrimSpace(d.Name),
		strings.TrimSpace(d.Client),
		strings.TrimSpace(d.Location),
		strings.TrimSpace(d.OrderingContact),
		strings.TrimSpace(d.AgentClass),
		tasks,
		existing.Manpower(),
		existing.CreatedAt(),
		existing.UpdatedAt(),
	), nil
}

func (d *TaskDatesDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func (d *TaskDatesDTO) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (d *ManpowerDTO) Ok() (map[string]string, bool) {
	return validateStruct(d)
}

func validateStruct(v interface{}) (map[string]string, bool) {
	errs := constants.Validate.Struct(v)
	if errs == nil {
		return map[string]string{}, true
	}
	fields := map[string]string{}
	for _, err := range errs.(validator.ValidationErrors) {
		fields[err.Field()] = err.Tag()
	}
	return fields, false
}
