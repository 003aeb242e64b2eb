package services

import (
	"context"

	"github.com/jakechorley/shift-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/shift-planner/pkg/core/solver"
	"github.com/jakechorley/shift-planner/pkg/db"
)

// stubBackend returns a fixed status with every variable at zero
type stubBackend struct {
	status solver.Status
	err    error
}

func (b *stubBackend) Solve(ctx context.Context, p *solver.Problem, params solver.Params) (*solver.Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	result := &solver.Result{Status: b.status}
	if b.status.HasSolution() {
		result.Values = make([]int, p.NumVars())
	}
	return result, nil
}

// mockRunStore implements db.RunStore and db.AssignmentStore
type mockRunStore struct {
	runs        []db.Run
	assignments map[string][]db.Assignment
	limit       int
	insertErr   error
	listErr     error
	getErr      error
}

func (m *mockRunStore) InsertRun(ctx context.Context, run *db.Run, assignments []db.Assignment) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.assignments == nil {
		m.assignments = make(map[string][]db.Assignment)
	}
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = assignments
	return nil
}

func (m *mockRunStore) ListRuns(ctx context.Context, limit int) ([]db.Run, error) {
	m.limit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.runs, nil
}

func (m *mockRunStore) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.assignments[runID], nil
}

// mockPublisher implements SchedulePublisher
type mockPublisher struct {
	spreadsheetID string
	days          []sheetsclient.PublishedDay
	err           error
}

func (m *mockPublisher) PublishSchedule(spreadsheetID string, days []sheetsclient.PublishedDay) error {
	if m.err != nil {
		return m.err
	}
	m.spreadsheetID = spreadsheetID
	m.days = days
	return nil
}

// mockRequestReader implements RequestSheetReader
type mockRequestReader struct {
	rows []sheetsclient.RequestRow
	err  error
}

func (m *mockRequestReader) ReadRequestSheet(spreadsheetID, tab string) ([]sheetsclient.RequestRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}
