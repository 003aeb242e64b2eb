package db

import "context"

// RunStore defines the interface for persisting planning runs
type RunStore interface {
	InsertRun(ctx context.Context, run *Run, assignments []Assignment) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// AssignmentStore reads back the assignments of a saved run
type AssignmentStore interface {
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	RunStore
	AssignmentStore
	Close()
}
