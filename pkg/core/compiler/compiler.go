package compiler

import (
	"errors"
	"fmt"

	"github.com/jakechorley/shift-planner/pkg/core/interval"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/solver"
)

// DoubleBookingVar is the indicator that a person holds both slots of a penalised pair
type DoubleBookingVar struct {
	Person int
	Pair   roster.SlotPair
	Var    solver.VarID
}

// MultiplicityVar is the number of shifts beyond the first that a person holds on a day
type MultiplicityVar struct {
	Person int
	Day    int
	Var    solver.VarID
}

// Stats counts what the compiler emitted
type Stats struct {
	Variables       int
	Constraints     int
	Coverage        int
	Forbidden       int
	Totals          int
	Rest            int
	PreferenceTerms int
	DoubleBooking   int
	Multiplicity    int
}

// Compiled is a roster compiled into a solver problem plus the index needed to
// read a result back
type Compiled struct {
	Roster  *roster.Roster
	Problem *solver.Problem

	// assign is indexed [person][day][shift]
	assign [][][]solver.VarID

	// Preference lists every rewarded assignment variable. A variable appears once
	// per preferred standard shift it overlaps.
	Preference []solver.VarID

	// Balance is bounded below by every person's total
	Balance solver.VarID

	DoubleBookings []DoubleBookingVar
	Multiplicities []MultiplicityVar

	Stats Stats
}

// Assign returns the variable for person p working shift s on day d
func (c *Compiled) Assign(p, d, s int) solver.VarID {
	return c.assign[p][d][s]
}

// Lookup returns the variable for a named assignment
func (c *Compiled) Lookup(a roster.Assignment) (solver.VarID, bool) {
	p, ok := c.Roster.PersonIndex(a.Person)
	if !ok {
		return 0, false
	}
	s, ok := c.Roster.ShiftIndex(a.Shift)
	if !ok || a.Day < 0 || a.Day >= c.Roster.Days() {
		return 0, false
	}
	return c.assign[p][a.Day][s], true
}

// opportunity is a (day, shift) a person could be assigned
type opportunity struct {
	day   int
	shift int
}

// Compile turns a roster into assignment variables, hard constraints and the
// weighted objective
func Compile(r *roster.Roster) (*Compiled, error) {
	if r == nil {
		return nil, errors.New("roster is required")
	}

	b := &builder{
		r: r,
		c: &Compiled{Roster: r, Problem: solver.NewProblem()},
	}
	b.variables()
	b.coverage()
	b.forbidden()
	b.totals()
	b.rest()
	b.preferences()
	b.balance()
	b.doubleBooking()
	b.multiplicity()
	b.objective()

	b.c.Stats.Variables = b.c.Problem.NumVars()
	b.c.Stats.Constraints = len(b.c.Problem.Constraints())
	return b.c, nil
}

type builder struct {
	r *roster.Roster
	c *Compiled
}

func (b *builder) shiftName(s int) string {
	return b.r.Shifts()[s].Name
}

func (b *builder) variables() {
	people := b.r.People()
	b.c.assign = make([][][]solver.VarID, len(people))
	for p, person := range people {
		b.c.assign[p] = make([][]solver.VarID, b.r.Days())
		for d := range b.r.Days() {
			b.c.assign[p][d] = make([]solver.VarID, b.r.NumShifts())
			for s := range b.r.NumShifts() {
				name := fmt.Sprintf("assign_%s_d%d_%s", person, d, b.shiftName(s))
				b.c.assign[p][d][s] = b.c.Problem.NewBoolVar(name)
			}
		}
	}
}

// coverage requires exactly the configured headcount on every shift and day
func (b *builder) coverage() {
	for d := range b.r.Days() {
		for s := range b.r.NumShifts() {
			expr := make(solver.Expr, 0, b.r.NumPeople())
			for p := range b.r.NumPeople() {
				expr = expr.Plus(b.c.assign[p][d][s], 1)
			}
			b.c.Problem.AddEquality(fmt.Sprintf("coverage_d%d_%s", d, b.shiftName(s)), expr, b.r.Required(s, d))
			b.c.Stats.Coverage++
		}
	}
}

// forbidden vetoes every shift overlapping a forbidden standard shift on that day
func (b *builder) forbidden() {
	standard := len(b.r.StandardShifts())
	overlapping := make([][]int, standard)
	for std := range standard {
		overlapping[std] = b.r.Overlapping(std)
	}

	for p, person := range b.r.People() {
		for d := range b.r.Days() {
			vetoed := make(map[int]bool)
			for std := range standard {
				if b.r.Signal(p, d, std) != roster.Forbid {
					continue
				}
				for _, s := range overlapping[std] {
					if vetoed[s] {
						continue
					}
					vetoed[s] = true
					name := fmt.Sprintf("forbid_%s_d%d_%s", person, d, b.shiftName(s))
					b.c.Problem.AddEquality(name, solver.Sum(b.c.assign[p][d][s]), 0)
					b.c.Stats.Forbidden++
				}
			}
		}
	}
}

func (b *builder) total(p int) solver.Expr {
	expr := make(solver.Expr, 0, b.r.Days()*b.r.NumShifts())
	for d := range b.r.Days() {
		for s := range b.r.NumShifts() {
			expr = expr.Plus(b.c.assign[p][d][s], 1)
		}
	}
	return expr
}

// totals applies the exact target when set, otherwise the min/max bounds
func (b *builder) totals() {
	for p, person := range b.r.People() {
		expr := b.total(p)
		if target, ok := b.r.Target(p); ok {
			b.c.Problem.AddEquality("target_"+person, expr, target)
			b.c.Stats.Totals++
			continue
		}
		lo, hi := b.r.TotalBounds(p)
		b.c.Problem.AddGreaterOrEqual("min_"+person, expr, lo)
		b.c.Problem.AddLessOrEqual("max_"+person, expr, hi)
		b.c.Stats.Totals += 2
	}
}

// conflicts lists every pair of distinct opportunities whose intervals leave
// less than the minimum rest in both orderings
func (b *builder) conflicts() [][2]opportunity {
	shifts := b.r.Shifts()
	var opps []opportunity
	for d := range b.r.Days() {
		for s := range shifts {
			opps = append(opps, opportunity{day: d, shift: s})
		}
	}

	var out [][2]opportunity
	for i := range opps {
		for j := i + 1; j < len(opps); j++ {
			a, c := opps[i], opps[j]
			if interval.ViolatesRest(a.day, shifts[a.shift].Intervals, c.day, shifts[c.shift].Intervals, b.r.MinRestHours()) {
				out = append(out, [2]opportunity{a, c})
			}
		}
	}
	return out
}

// rest stops a person holding any two opportunities that are too close together
func (b *builder) rest() {
	pairs := b.conflicts()
	for p, person := range b.r.People() {
		for _, pair := range pairs {
			a, c := pair[0], pair[1]
			name := fmt.Sprintf("rest_%s_d%d_%s_d%d_%s", person, a.day, b.shiftName(a.shift), c.day, b.shiftName(c.shift))
			b.c.Problem.AddLessOrEqual(name, solver.Sum(b.c.assign[p][a.day][a.shift], b.c.assign[p][c.day][c.shift]), 1)
			b.c.Stats.Rest++
		}
	}
}

// preferences rewards each shift overlapping a preferred standard shift
func (b *builder) preferences() {
	standard := len(b.r.StandardShifts())
	for p := range b.r.NumPeople() {
		for d := range b.r.Days() {
			for std := range standard {
				if b.r.Signal(p, d, std) != roster.Prefer {
					continue
				}
				for _, s := range b.r.Overlapping(std) {
					b.c.Preference = append(b.c.Preference, b.c.assign[p][d][s])
				}
			}
		}
	}
	b.c.Stats.PreferenceTerms = len(b.c.Preference)
}

// balance bounds every person's total by one auxiliary that the objective minimises
func (b *builder) balance() {
	b.c.Balance = b.c.Problem.NewIntVar(0, b.r.MaxTotal(), "max_shifts")
	for p, person := range b.r.People() {
		b.c.Problem.AddLessOrEqual("balance_"+person, b.total(p).Plus(b.c.Balance, -1), 0)
	}
}

// doubleBooking links an indicator to each person holding both slots of a pair
func (b *builder) doubleBooking() {
	for _, pair := range b.r.DoubleBookingPairs() {
		sa, _ := b.r.ShiftIndex(pair.A.Shift)
		sb, _ := b.r.ShiftIndex(pair.B.Shift)
		for p, person := range b.r.People() {
			xa := b.c.assign[p][pair.A.Day][sa]
			xb := b.c.assign[p][pair.B.Day][sb]
			name := fmt.Sprintf("double_%s_d%d_%s_d%d_%s", person, pair.A.Day, pair.A.Shift, pair.B.Day, pair.B.Shift)
			y := b.c.Problem.NewBoolVar(name)

			b.c.Problem.AddLessOrEqual(name+"_a", solver.Sum(y).Plus(xa, -1), 0)
			b.c.Problem.AddLessOrEqual(name+"_b", solver.Sum(y).Plus(xb, -1), 0)
			b.c.Problem.AddGreaterOrEqual(name+"_both", solver.Sum(y).Plus(xa, -1).Plus(xb, -1), -1)

			b.c.DoubleBookings = append(b.c.DoubleBookings, DoubleBookingVar{Person: p, Pair: pair, Var: y})
			b.c.Stats.DoubleBooking++
		}
	}
}

// multiplicity counts shifts beyond the first on each day, clamped at zero
func (b *builder) multiplicity() {
	shifts := b.r.NumShifts()
	if b.r.Weights().Multiplicity == 0 || shifts < 2 {
		return
	}
	for p, person := range b.r.People() {
		for d := range b.r.Days() {
			name := fmt.Sprintf("multi_%s_d%d", person, d)
			e := b.c.Problem.NewIntVar(0, shifts-1, name)
			expr := solver.Sum(e)
			for s := range shifts {
				expr = expr.Plus(b.c.assign[p][d][s], -1)
			}
			b.c.Problem.AddGreaterOrEqual(name, expr, -1)
			b.c.Multiplicities = append(b.c.Multiplicities, MultiplicityVar{Person: p, Day: d, Var: e})
			b.c.Stats.Multiplicity++
		}
	}
}

func (b *builder) objective() {
	w := b.r.Weights()
	obj := solver.Sum(b.c.Preference...).Scale(w.Preference)
	obj = obj.Plus(b.c.Balance, -1)
	for _, db := range b.c.DoubleBookings {
		obj = obj.Plus(db.Var, -w.DoubleBooking)
	}
	for _, m := range b.c.Multiplicities {
		obj = obj.Plus(m.Var, -w.Multiplicity)
	}
	b.c.Problem.Maximize(obj)
}
