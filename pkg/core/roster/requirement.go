package roster

import "fmt"

// DefaultRequirement is the headcount used when neither a shift entry nor a
// coverage default is configured
const DefaultRequirement = 1

type requirementKind int

const (
	requirementUnset requirementKind = iota
	requirementUniform
	requirementPerDay
)

// Requirement is an exact headcount source for a shift: either the same count on
// every day or one count per day. The zero value is unset.
type Requirement struct {
	kind    requirementKind
	uniform int
	perDay  []int
}

// Uniform requires the same headcount on every day
func Uniform(count int) Requirement {
	return Requirement{kind: requirementUniform, uniform: count}
}

// PerDay requires counts[d] people on day d
func PerDay(counts []int) Requirement {
	return Requirement{kind: requirementPerDay, perDay: append([]int(nil), counts...)}
}

// IsSet reports whether the requirement was configured
func (r Requirement) IsSet() bool {
	return r.kind != requirementUnset
}

// IsPerDay reports whether the requirement varies by day
func (r Requirement) IsPerDay() bool {
	return r.kind == requirementPerDay
}

// At returns the headcount for a day. Callers must validate the requirement first.
func (r Requirement) At(day int) int {
	switch r.kind {
	case requirementUniform:
		return r.uniform
	case requirementPerDay:
		return r.perDay[day]
	}
	return DefaultRequirement
}

// Validate checks the counts are non-negative and a per-day vector covers the horizon
func (r Requirement) Validate(days int) error {
	switch r.kind {
	case requirementUniform:
		if r.uniform < 0 {
			return fmt.Errorf("requirement %d is negative", r.uniform)
		}
	case requirementPerDay:
		if len(r.perDay) != days {
			return fmt.Errorf("per-day requirement has %d entries, expected %d", len(r.perDay), days)
		}
		for d, count := range r.perDay {
			if count < 0 {
				return fmt.Errorf("requirement %d on day %d is negative", count, d)
			}
		}
	}
	return nil
}

func (r Requirement) String() string {
	switch r.kind {
	case requirementUniform:
		return fmt.Sprintf("%d", r.uniform)
	case requirementPerDay:
		return fmt.Sprintf("%v", r.perDay)
	}
	return "unset"
}

// Coverage maps shifts to their requirements. Shifts missing from ByShift use
// Default, and an unset Default falls back to DefaultRequirement.
type Coverage struct {
	Default Requirement
	ByShift map[string]Requirement
}
