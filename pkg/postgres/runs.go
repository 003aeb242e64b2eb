package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/shift-planner/pkg/db"
)

// InsertRun inserts a run and its assignments in one transaction
func (d *DB) InsertRun(ctx context.Context, run *db.Run, assignments []db.Assignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO run (id, roster_name, status, objective, people, days, shifts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.RosterName, run.Status, run.Objective, run.People, run.Days, run.Shifts, run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (run_id, person, day, shift)
			VALUES ($1, $2, $3, $4)
		`, run.ID, a.Person, a.Day, a.Shift)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListRuns retrieves the most recent runs with their assignment counts.
// A non-positive limit returns every run.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]db.Run, error) {
	var maxRows *int
	if limit > 0 {
		maxRows = &limit
	}

	rows, err := d.pool.Query(ctx, `
		SELECT r.id, r.roster_name, r.status, r.objective, r.people, r.days, r.shifts, r.created_at,
			COUNT(a.run_id)
		FROM run r
		LEFT JOIN assignment a ON a.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT $1
	`, maxRows)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		if err := rows.Scan(&r.ID, &r.RosterName, &r.Status, &r.Objective, &r.People, &r.Days, &r.Shifts, &r.CreatedAt, &r.AssignmentCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetAssignments retrieves the assignments of a run ordered by day, shift then person
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, person, day, shift
		FROM assignment
		WHERE run_id = $1
		ORDER BY day, shift, person
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var a db.Assignment
		if err := rows.Scan(&a.RunID, &a.Person, &a.Day, &a.Shift); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}
