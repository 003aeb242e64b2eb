package db

import "time"

// Run represents a persisted planning run
type Run struct {
	ID         string
	RosterName string
	Status     string
	Objective  int
	People     int
	Days       int
	Shifts     int
	CreatedAt  time.Time

	// AssignmentCount is filled by ListRuns
	AssignmentCount int
}

// Assignment represents one person working one shift on one day of a run
type Assignment struct {
	RunID  string
	Person string
	Day    int
	Shift  string
}
