package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func solve(t *testing.T, p *Problem, params Params) *Result {
	t.Helper()
	result, err := NewSearch(zap.NewNop()).Solve(context.Background(), p, params)
	require.NoError(t, err)
	return result
}

func TestSearch_PicksOneOfTwo(t *testing.T) {
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	p.AddEquality("cover", Sum(a, b), 1)

	result := solve(t, p, Params{})

	assert.Equal(t, Optimal, result.Status)
	assert.Equal(t, 1, result.Value(a)+result.Value(b))
	assert.NoError(t, p.Check(result.Values))
}

func TestSearch_Knapsack(t *testing.T) {
	// maximise 5a + 4b + 3c subject to 2a + 3b + c <= 4
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	c := p.NewBoolVar("c")
	p.AddLessOrEqual("weight", Expr{{a, 2}, {b, 3}, {c, 1}}, 4)
	p.Maximize(Expr{{a, 5}, {b, 4}, {c, 3}})

	result := solve(t, p, Params{})

	require.Equal(t, Optimal, result.Status)
	assert.Equal(t, 8, result.Objective)
	assert.True(t, result.BoolValue(a))
	assert.False(t, result.BoolValue(b))
	assert.True(t, result.BoolValue(c))
}

func TestSearch_IntegerAuxiliary(t *testing.T) {
	// minimise the maximum of two totals that must add up to 5
	p := NewProblem()
	x := p.NewIntVar(0, 5, "x")
	y := p.NewIntVar(0, 5, "y")
	m := p.NewIntVar(0, 5, "max")
	p.AddEquality("total", Sum(x, y), 5)
	p.AddLessOrEqual("x<=max", Sum(x).Plus(m, -1), 0)
	p.AddLessOrEqual("y<=max", Sum(y).Plus(m, -1), 0)
	p.Maximize(Expr{{m, -1}})

	result := solve(t, p, Params{})

	require.Equal(t, Optimal, result.Status)
	assert.Equal(t, -3, result.Objective)
	assert.Equal(t, 3, result.Value(m))
}

func TestSearch_GreaterOrEqualAndRepeatedTerms(t *testing.T) {
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	// a + a + b >= 3 forces both
	p.AddGreaterOrEqual("min", Expr{{a, 1}, {a, 1}, {b, 1}}, 3)

	result := solve(t, p, Params{})

	require.Equal(t, Optimal, result.Status)
	assert.Equal(t, []int{1, 1}, result.Values)
}

func TestSearch_Infeasible(t *testing.T) {
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	p.AddEquality("cover", Sum(a, b), 2)
	p.AddLessOrEqual("rest", Sum(a, b), 1)

	result := solve(t, p, Params{})

	assert.Equal(t, Infeasible, result.Status)
	assert.Nil(t, result.Values)
}

func TestSearch_InfeasibleAfterBranching(t *testing.T) {
	result := solve(t, pigeonhole(3, 2), Params{})
	assert.Equal(t, Infeasible, result.Status)
}

func TestSearch_WorkersAgreeOnObjective(t *testing.T) {
	build := func() *Problem {
		p := NewProblem()
		var vars []VarID
		for range 12 {
			vars = append(vars, p.NewBoolVar("v"))
		}
		var weight, value Expr
		for i, v := range vars {
			weight = weight.Plus(v, i%4+1)
			value = value.Plus(v, (i*7)%5+1)
		}
		p.AddLessOrEqual("capacity", weight, 10)
		p.Maximize(value)
		return p
	}

	single := solve(t, build(), Params{Workers: 1})
	parallel := solve(t, build(), Params{Workers: 4})

	require.Equal(t, Optimal, single.Status)
	require.Equal(t, Optimal, parallel.Status)
	assert.Equal(t, single.Objective, parallel.Objective)
}

// pigeonhole builds a problem placing each person in exactly one slot with at
// most one person per slot. It is infeasible when people > slots.
func pigeonhole(people, slots int) *Problem {
	p := NewProblem()
	x := make([][]VarID, people)
	for i := range people {
		x[i] = make([]VarID, slots)
		for j := range slots {
			x[i][j] = p.NewBoolVar("x")
		}
		p.AddEquality("person", Sum(x[i]...), 1)
	}
	for j := range slots {
		col := Expr{}
		for i := range people {
			col = col.Plus(x[i][j], 1)
		}
		p.AddLessOrEqual("slot", col, 1)
	}
	return p
}

func TestSearch_TimeLimitWithoutSolution(t *testing.T) {
	// no solution exists and the tree is far too large to exhaust
	result := solve(t, pigeonhole(14, 13), Params{TimeLimit: 50 * time.Millisecond})

	assert.Equal(t, TimeoutNoSolution, result.Status)
	assert.Nil(t, result.Values)
}

func TestSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSearch(nil).Solve(ctx, pigeonhole(16, 15), Params{})
	assert.ErrorIs(t, err, context.Canceled)
}

// knapsack builds a problem whose first solutions come quickly but whose
// optimality proof is far too large to finish
func knapsack(items int) *Problem {
	p := NewProblem()
	var weight, value Expr
	total := 0
	for i := range items {
		v := p.NewBoolVar("item")
		w := (i*5)%13 + 1
		weight = weight.Plus(v, w)
		value = value.Plus(v, (i*7)%11+1)
		total += w
	}
	p.AddLessOrEqual("capacity", weight, total/2)
	p.Maximize(value)
	return p
}

func TestSearch_TimeLimitKeepsIncumbent(t *testing.T) {
	p := knapsack(60)

	result := solve(t, p, Params{TimeLimit: 50 * time.Millisecond})

	assert.Equal(t, Feasible, result.Status)
	require.NotNil(t, result.Values)
	assert.NoError(t, p.Check(result.Values))
	assert.Equal(t, p.Objective().Eval(result.Values), result.Objective)
}

func TestSearch_CancelledAfterIncumbent(t *testing.T) {
	p := knapsack(60)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	result, err := NewSearch(nil).Solve(ctx, p, Params{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, Feasible, result.Status)
	require.NotNil(t, result.Values)
	assert.NoError(t, p.Check(result.Values))
}

func TestSearch_RepairsCoverageQuickly(t *testing.T) {
	// eight people over sixteen slots, two per slot, at most one slot in
	// each adjacent pair per person and everyone pushed towards zero
	const people, slots = 8, 16
	p := NewProblem()
	x := make([][]VarID, people)
	for i := range people {
		x[i] = make([]VarID, slots)
		for j := range slots {
			x[i][j] = p.NewBoolVar("x")
		}
	}
	for j := range slots {
		col := Expr{}
		for i := range people {
			col = col.Plus(x[i][j], 1)
		}
		p.AddEquality("cover", col, 2)
	}
	most := p.NewIntVar(0, slots, "most")
	for i := range people {
		for j := 0; j+1 < slots; j++ {
			p.AddLessOrEqual("rest", Sum(x[i][j], x[i][j+1]), 1)
		}
		p.AddLessOrEqual("balance", Sum(x[i]...).Plus(most, -1), 0)
	}
	p.Maximize(Expr{{most, -1}})

	result := solve(t, p, Params{TimeLimit: 5 * time.Second})

	require.True(t, result.Status.HasSolution(), "status %s", result.Status)
	assert.NoError(t, p.Check(result.Values))
	assert.Equal(t, -result.Value(most), result.Objective)
}

func TestPick(t *testing.T) {
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	c := p.NewBoolVar("c")
	p.AddEquality("cover", Sum(a, b), 1)
	p.AddLessOrEqual("rest", Sum(a, c), 1)
	p.Maximize(Expr{{c, 1}})
	m := newModel(p)

	// c defaults to one, so raising a would break rest and b is the better repair
	v, up, point := m.pick([]int{0, 0, 0}, []int{1, 1, 1})
	assert.Equal(t, int(b), v)
	assert.True(t, up)
	assert.Nil(t, point)

	v, _, point = m.pick([]int{0, 1, 0}, []int{0, 1, 1})
	assert.Equal(t, -1, v)
	assert.Equal(t, []int{0, 1, 1}, point)

	v, _, point = m.pick([]int{0, 0, 0}, []int{0, 0, 1})
	assert.Equal(t, -1, v)
	assert.Nil(t, point, "cover cannot be repaired")
}

func TestSolve_RejectsInvalidProblem(t *testing.T) {
	p := NewProblem()
	p.NewIntVar(3, 1, "empty")

	_, err := NewSearch(nil).Solve(context.Background(), p, Params{})
	assert.Error(t, err)

	p = NewProblem()
	p.AddEquality("dangling", Sum(VarID(7)), 1)
	_, err = NewSearch(nil).Solve(context.Background(), p, Params{})
	assert.Error(t, err)
}

func TestPropagate(t *testing.T) {
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	c := p.NewIntVar(0, 10, "c")
	p.AddEquality("cover", Sum(a, b), 1)
	p.AddLessOrEqual("cap", Sum(a).Plus(c, 2), 7)

	m := newModel(p)
	lo := []int{1, 0, 0}
	hi := []int{1, 1, 10}
	all := make([]int, len(m.cons))
	for i := range all {
		all[i] = i
	}

	require.True(t, m.propagate(lo, hi, all))
	assert.Equal(t, 0, hi[b], "cover forces b to zero once a is one")
	assert.Equal(t, 3, hi[c], "2c <= 6")
}

func TestProblemCheck(t *testing.T) {
	p := NewProblem()
	a := p.NewBoolVar("a")
	b := p.NewBoolVar("b")
	p.AddLessOrEqual("rest", Sum(a, b), 1)

	assert.NoError(t, p.Check([]int{1, 0}))
	assert.Error(t, p.Check([]int{1, 1}))
	assert.Error(t, p.Check([]int{2, 0}))
	assert.Error(t, p.Check([]int{1}))
}
