package models

import "time"

type Project struct {
	ID              string
	Name            string
	Client          string
	Location        string
	OrderingContact string
	AgentClass      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Task struct {
	ProjectID    string
	ID           string
	Name         string
	WorkCategory string
	StartDate    *time.Time
	EndDate      *time.Time
	Progress     int
	AssignedTo   []string
	Position     int
}

type ManpowerEntry struct {
	ProjectID     string
	EntryDate     time.Time
	RequiredCount int
	SecuredCount  int
}
