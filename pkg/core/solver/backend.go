package solver

import (
	"context"
	"time"
)

// Status is the outcome of a solve
type Status string

const (
	// Optimal means the returned assignment is proven best
	Optimal Status = "OPTIMAL"
	// Feasible means an assignment was found but the budget ran out before proving optimality
	Feasible Status = "FEASIBLE"
	// Infeasible means no assignment satisfies the constraints
	Infeasible Status = "INFEASIBLE"
	// TimeoutNoSolution means the budget ran out before any assignment was found
	TimeoutNoSolution Status = "TIMEOUT_NO_SOLUTION"
)

// HasSolution reports whether results with this status carry variable values
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Params controls a solve
type Params struct {
	// TimeLimit is the wall-clock budget. Zero means no limit.
	TimeLimit time.Duration

	// Workers is a parallelism hint. Values below 1 mean a single worker.
	Workers int
}

// Result is what a backend returns after solving
type Result struct {
	Status    Status
	Objective int

	// Values holds one entry per variable when Status has a solution
	Values []int

	WallTime time.Duration
	Nodes    int64
}

// Value returns the resolved value of v
func (r *Result) Value(v VarID) int {
	return r.Values[v]
}

// BoolValue returns the resolved value of a 0/1 variable
func (r *Result) BoolValue(v VarID) bool {
	return r.Values[v] != 0
}

// Backend solves problems. Implementations must return the best assignment found
// (Feasible) or TimeoutNoSolution when the time limit is reached.
type Backend interface {
	Solve(ctx context.Context, p *Problem, params Params) (*Result, error)
}
