package roster

import (
	"math"

	"github.com/jakechorley/shift-planner/pkg/core/interval"
)

// Default objective weights. Preference dominates so honoured requests are
// maximised before balancing and penalties are considered.
const (
	DefaultPreferenceWeight    = 1000
	DefaultDoubleBookingWeight = 10
	DefaultMultiplicityWeight  = 1
)

// Shift is a named block of work made up of one or more intervals
type Shift struct {
	Name      string
	Intervals []interval.Interval
}

// Bounds limits a person's total number of assigned shifts.
// A nil Max means no upper bound beyond the size of the horizon.
type Bounds struct {
	Min int
	Max *int
}

// Between bounds a total to [min, max]
func Between(min, max int) Bounds {
	return Bounds{Min: min, Max: &max}
}

// AtLeast bounds a total from below only
func AtLeast(min int) Bounds {
	return Bounds{Min: min}
}

// Slot identifies a shift on a particular day
type Slot struct {
	Day   int
	Shift string
}

// SlotPair is a pair of slots a person should preferably not hold together
type SlotPair struct {
	A Slot
	B Slot
}

// Weights scales the soft objective terms
type Weights struct {
	Preference    int
	DoubleBooking int
	Multiplicity  int
}

// DefaultWeights returns the standard objective weights
func DefaultWeights() Weights {
	return Weights{
		Preference:    DefaultPreferenceWeight,
		DoubleBooking: DefaultDoubleBookingWeight,
		Multiplicity:  DefaultMultiplicityWeight,
	}
}

// Input is the declarative description of a roster problem
type Input struct {
	// People in index order
	People []string

	// Days in the horizon. Zero means take it from the request cube.
	Days int

	// StandardShifts names the shifts that request signals refer to, in cube order.
	// Every standard shift must also appear in Shifts.
	StandardShifts []string

	// Shifts offered for assignment, in registry order
	Shifts []Shift

	// Requests is indexed [person][day][standard shift]. Nil means every signal is Neutral.
	Requests [][][]Signal

	// Coverage sets the exact headcount per shift and day
	Coverage Coverage

	// DefaultBounds applies to every person without an entry in PersonBounds
	DefaultBounds Bounds

	// PersonBounds overrides DefaultBounds by person name
	PersonBounds map[string]Bounds

	// Targets sets an exact total for selected people, replacing their bounds
	Targets map[string]int

	// MinRestHours is the minimum gap between any two assigned intervals of one person
	MinRestHours float64

	// DoubleBooking lists slot pairs that are penalised when one person holds both
	DoubleBooking []SlotPair

	// Weights for the soft objective terms. Nil uses DefaultWeights.
	Weights *Weights
}

// Roster is a validated, immutable roster problem
type Roster struct {
	people      []string
	personIndex map[string]int
	days        int

	shifts     []Shift
	shiftIndex map[string]int
	standard   []int

	requests [][][]Signal
	coverage [][]int

	minTotal  []int
	maxTotal  []int
	targets   []int
	hasTarget []bool

	minRest       float64
	doubleBooking []SlotPair
	weights       Weights
}

// New validates input and resolves it into a Roster.
// All structural problems are reported as *InputError.
func New(in Input) (*Roster, error) {
	r := &Roster{
		personIndex: make(map[string]int, len(in.People)),
		shiftIndex:  make(map[string]int, len(in.Shifts)),
	}

	if len(in.People) == 0 {
		return nil, inputErrorf("people", "at least one person is required")
	}
	for i, name := range in.People {
		if name == "" {
			return nil, inputErrorf("people", "person %d has an empty name", i)
		}
		if _, exists := r.personIndex[name]; exists {
			return nil, inputErrorf("people", "duplicate person %q", name)
		}
		r.personIndex[name] = i
	}
	r.people = append([]string(nil), in.People...)

	if len(in.Shifts) == 0 {
		return nil, inputErrorf("shifts", "at least one shift is required")
	}
	for i, shift := range in.Shifts {
		if shift.Name == "" {
			return nil, inputErrorf("shifts", "shift %d has an empty name", i)
		}
		if _, exists := r.shiftIndex[shift.Name]; exists {
			return nil, inputErrorf("shifts", "duplicate shift %q", shift.Name)
		}
		if len(shift.Intervals) == 0 {
			return nil, inputErrorf("shifts", "shift %q has no intervals", shift.Name)
		}
		for _, iv := range shift.Intervals {
			if err := iv.Validate(); err != nil {
				return nil, inputErrorf("shifts", "shift %q: %v", shift.Name, err)
			}
		}
		r.shiftIndex[shift.Name] = i
		r.shifts = append(r.shifts, Shift{
			Name:      shift.Name,
			Intervals: append([]interval.Interval(nil), shift.Intervals...),
		})
	}

	seenStandard := make(map[string]bool, len(in.StandardShifts))
	for _, name := range in.StandardShifts {
		idx, ok := r.shiftIndex[name]
		if !ok {
			return nil, inputErrorf("standardShifts", "standard shift %q has no intervals in the shift registry", name)
		}
		if seenStandard[name] {
			return nil, inputErrorf("standardShifts", "duplicate standard shift %q", name)
		}
		seenStandard[name] = true
		r.standard = append(r.standard, idx)
	}

	r.days = in.Days
	if r.days == 0 && len(in.Requests) > 0 {
		r.days = len(in.Requests[0])
	}
	if r.days <= 0 {
		return nil, inputErrorf("days", "horizon must contain at least one day")
	}

	if err := r.resolveRequests(in.Requests); err != nil {
		return nil, err
	}
	if err := r.resolveCoverage(in.Coverage); err != nil {
		return nil, err
	}
	if err := r.resolveTotals(in); err != nil {
		return nil, err
	}

	if math.IsNaN(in.MinRestHours) || in.MinRestHours < 0 {
		return nil, inputErrorf("minRestHours", "must be a non-negative number, got %g", in.MinRestHours)
	}
	r.minRest = in.MinRestHours

	for i, pair := range in.DoubleBooking {
		for _, slot := range []Slot{pair.A, pair.B} {
			if _, ok := r.shiftIndex[slot.Shift]; !ok {
				return nil, inputErrorf("doubleBooking", "pair %d references unknown shift %q", i, slot.Shift)
			}
			if slot.Day < 0 || slot.Day >= r.days {
				return nil, inputErrorf("doubleBooking", "pair %d references day %d outside the horizon", i, slot.Day)
			}
		}
		if pair.A == pair.B {
			return nil, inputErrorf("doubleBooking", "pair %d uses the same slot twice", i)
		}
	}
	r.doubleBooking = append([]SlotPair(nil), in.DoubleBooking...)

	r.weights = DefaultWeights()
	if in.Weights != nil {
		w := *in.Weights
		if w.Preference < 0 || w.DoubleBooking < 0 || w.Multiplicity < 0 {
			return nil, inputErrorf("weights", "weights must be non-negative")
		}
		r.weights = w
	}

	return r, nil
}

func (r *Roster) resolveRequests(requests [][][]Signal) error {
	if requests == nil {
		r.requests = SignalCube(len(r.people), r.days, len(r.standard))
		return nil
	}
	if len(requests) != len(r.people) {
		return inputErrorf("requests", "expected %d people, got %d", len(r.people), len(requests))
	}
	r.requests = SignalCube(len(r.people), r.days, len(r.standard))
	for p, perDay := range requests {
		if len(perDay) != r.days {
			return inputErrorf("requests", "%s has %d days, expected %d", r.people[p], len(perDay), r.days)
		}
		for d, signals := range perDay {
			if len(signals) != len(r.standard) {
				return inputErrorf("requests", "%s day %d has %d signals, expected %d",
					r.people[p], d, len(signals), len(r.standard))
			}
			for s, signal := range signals {
				if !signal.Valid() {
					return inputErrorf("requests", "%s day %d shift %d has invalid signal %d",
						r.people[p], d, s, int(signal))
				}
				r.requests[p][d][s] = signal
			}
		}
	}
	return nil
}

func (r *Roster) resolveCoverage(cov Coverage) error {
	if err := cov.Default.Validate(r.days); err != nil {
		return inputErrorf("coverage", "default: %v", err)
	}
	for name, req := range cov.ByShift {
		if _, ok := r.shiftIndex[name]; !ok {
			return inputErrorf("coverage", "unknown shift %q", name)
		}
		if err := req.Validate(r.days); err != nil {
			return inputErrorf("coverage", "shift %q: %v", name, err)
		}
	}

	r.coverage = make([][]int, len(r.shifts))
	for s, shift := range r.shifts {
		req, ok := cov.ByShift[shift.Name]
		if !ok || !req.IsSet() {
			req = cov.Default
		}
		r.coverage[s] = make([]int, r.days)
		for d := range r.days {
			r.coverage[s][d] = req.At(d)
		}
	}
	return nil
}

func (r *Roster) resolveTotals(in Input) error {
	horizon := r.days * len(r.shifts)
	resolve := func(field string, b Bounds) (int, int, error) {
		hi := horizon
		if b.Max != nil {
			hi = *b.Max
		}
		if b.Min < 0 {
			return 0, 0, inputErrorf(field, "min %d is negative", b.Min)
		}
		if hi < b.Min {
			return 0, 0, inputErrorf(field, "max %d is below min %d", hi, b.Min)
		}
		return b.Min, hi, nil
	}

	defMin, defMax, err := resolve("bounds", in.DefaultBounds)
	if err != nil {
		return err
	}
	for name := range in.PersonBounds {
		if _, ok := r.personIndex[name]; !ok {
			return inputErrorf("bounds", "unknown person %q", name)
		}
	}
	for name, target := range in.Targets {
		if _, ok := r.personIndex[name]; !ok {
			return inputErrorf("targets", "unknown person %q", name)
		}
		if target < 0 {
			return inputErrorf("targets", "target %d for %q is negative", target, name)
		}
	}

	r.minTotal = make([]int, len(r.people))
	r.maxTotal = make([]int, len(r.people))
	r.targets = make([]int, len(r.people))
	r.hasTarget = make([]bool, len(r.people))
	for p, name := range r.people {
		r.minTotal[p], r.maxTotal[p] = defMin, defMax
		if b, ok := in.PersonBounds[name]; ok {
			if r.minTotal[p], r.maxTotal[p], err = resolve("bounds."+name, b); err != nil {
				return err
			}
		}
		if target, ok := in.Targets[name]; ok {
			r.targets[p] = target
			r.hasTarget[p] = true
		}
	}
	return nil
}

// People returns the person names in index order
func (r *Roster) People() []string { return r.people }

// NumPeople returns the number of people
func (r *Roster) NumPeople() int { return len(r.people) }

// Days returns the length of the horizon
func (r *Roster) Days() int { return r.days }

// Shifts returns the offered shifts in registry order
func (r *Roster) Shifts() []Shift { return r.shifts }

// NumShifts returns the number of offered shifts
func (r *Roster) NumShifts() int { return len(r.shifts) }

// PersonIndex looks up a person by name
func (r *Roster) PersonIndex(name string) (int, bool) {
	idx, ok := r.personIndex[name]
	return idx, ok
}

// ShiftIndex looks up a shift by name
func (r *Roster) ShiftIndex(name string) (int, bool) {
	idx, ok := r.shiftIndex[name]
	return idx, ok
}

// StandardShifts returns the standard shifts in request cube order
func (r *Roster) StandardShifts() []Shift {
	out := make([]Shift, len(r.standard))
	for i, idx := range r.standard {
		out[i] = r.shifts[idx]
	}
	return out
}

// Signal returns the request of person p for standard shift std on day d
func (r *Roster) Signal(p, d, std int) Signal {
	return r.requests[p][d][std]
}

// Required returns the exact headcount for shift index s on day d
func (r *Roster) Required(s, d int) int {
	return r.coverage[s][d]
}

// TotalBounds returns the inclusive min and max totals for person p
func (r *Roster) TotalBounds(p int) (int, int) {
	return r.minTotal[p], r.maxTotal[p]
}

// Target returns the exact total for person p when one is configured
func (r *Roster) Target(p int) (int, bool) {
	return r.targets[p], r.hasTarget[p]
}

// MinRestHours returns the minimum rest between assigned intervals
func (r *Roster) MinRestHours() float64 { return r.minRest }

// DoubleBookingPairs returns the penalised slot pairs
func (r *Roster) DoubleBookingPairs() []SlotPair { return r.doubleBooking }

// Weights returns the objective weights
func (r *Roster) Weights() Weights { return r.weights }

// MaxTotal is the largest number of shifts any one person could be assigned
func (r *Roster) MaxTotal() int { return r.days * len(r.shifts) }

// Overlapping returns the offered shift indices whose intervals overlap standard shift std
func (r *Roster) Overlapping(std int) []int {
	target := r.shifts[r.standard[std]].Intervals
	var out []int
	for s, shift := range r.shifts {
		if interval.AnyOverlap(shift.Intervals, target) {
			out = append(out, s)
		}
	}
	return out
}
