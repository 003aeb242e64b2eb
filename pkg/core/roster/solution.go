package roster

import (
	"cmp"
	"slices"
)

// Assignment is one person working one shift on one day
type Assignment struct {
	Person string
	Day    int
	Shift  string
}

// Solution is the sparse set of true assignments. Absent keys are false.
type Solution map[Assignment]bool

// NewSolution builds a solution from a list of assignments
func NewSolution(assignments ...Assignment) Solution {
	sol := make(Solution, len(assignments))
	for _, a := range assignments {
		sol.Add(a)
	}
	return sol
}

// Add marks an assignment as worked
func (s Solution) Add(a Assignment) {
	s[a] = true
}

// Has reports whether the assignment is worked
func (s Solution) Has(a Assignment) bool {
	return s[a]
}

// Assignments returns the true entries ordered by day, shift then person
func (s Solution) Assignments() []Assignment {
	out := make([]Assignment, 0, len(s))
	for a, v := range s {
		if v {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(x, y Assignment) int {
		return cmp.Or(
			cmp.Compare(x.Day, y.Day),
			cmp.Compare(x.Shift, y.Shift),
			cmp.Compare(x.Person, y.Person),
		)
	})
	return out
}

// Assigned returns the people working a shift on a day in roster order
func (r *Roster) Assigned(sol Solution, day int, shift string) []string {
	var out []string
	for _, person := range r.people {
		if sol.Has(Assignment{Person: person, Day: day, Shift: shift}) {
			out = append(out, person)
		}
	}
	return out
}

// SolutionFromDays builds a solution from one shift -> people map per day,
// the shape used by schedule files and published sheets
func SolutionFromDays(r *Roster, days []map[string][]string) (Solution, error) {
	if len(days) > r.days {
		return nil, inputErrorf("schedule", "schedule has %d days, roster has %d", len(days), r.days)
	}
	sol := make(Solution)
	for d, shifts := range days {
		for shift, people := range shifts {
			if _, ok := r.shiftIndex[shift]; !ok {
				return nil, inputErrorf("schedule", "day %d references unknown shift %q", d, shift)
			}
			for _, person := range people {
				if _, ok := r.personIndex[person]; !ok {
					return nil, inputErrorf("schedule", "day %d shift %q references unknown person %q", d, shift, person)
				}
				sol.Add(Assignment{Person: person, Day: d, Shift: shift})
			}
		}
	}
	return sol, nil
}

// ToDays converts a solution back into one shift -> people map per day.
// Shifts with no requirement and no assignees are omitted.
func (r *Roster) ToDays(sol Solution) []map[string][]string {
	out := make([]map[string][]string, r.days)
	for d := range r.days {
		out[d] = make(map[string][]string)
		for s, shift := range r.shifts {
			assigned := r.Assigned(sol, d, shift.Name)
			if len(assigned) == 0 && r.coverage[s][d] == 0 {
				continue
			}
			if assigned == nil {
				assigned = []string{}
			}
			out[d][shift.Name] = assigned
		}
	}
	return out
}
