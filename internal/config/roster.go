package config

import (
	"fmt"
	"os"
	"time"

	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/shift-planner/pkg/core/interval"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
)

// DateLayout is the layout of startDate in roster files
const DateLayout = "2006-01-02"

// ShiftSpec is a shift and its intervals as [start, end] hour pairs
type ShiftSpec struct {
	Name      string       `yaml:"name" validate:"required"`
	Intervals [][2]float64 `yaml:"intervals" validate:"required,min=1"`
}

// RequirementValue is either a single headcount for every day or one headcount per day
type RequirementValue struct {
	Count  int
	PerDay []int
}

// UnmarshalYAML accepts `2` or `[1, 2, 1]`
func (v *RequirementValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v.PerDay = nil
		return node.Decode(&v.Count)
	case yaml.SequenceNode:
		v.Count = 0
		return node.Decode(&v.PerDay)
	}
	return fmt.Errorf("line %d: coverage must be a number or a list of numbers", node.Line)
}

// MarshalYAML writes the value back in the shape it was read
func (v RequirementValue) MarshalYAML() (interface{}, error) {
	if v.PerDay != nil {
		return v.PerDay, nil
	}
	return v.Count, nil
}

func (v RequirementValue) requirement() roster.Requirement {
	if v.PerDay != nil {
		return roster.PerDay(v.PerDay)
	}
	return roster.Uniform(v.Count)
}

// CoverageSpec sets the required headcount per shift
type CoverageSpec struct {
	Default *RequirementValue           `yaml:"default,omitempty"`
	Shifts  map[string]RequirementValue `yaml:"shifts,omitempty"`
}

// CoverageOverride sets the headcount of a shift on every horizon day an RRULE hits
type CoverageOverride struct {
	RRule string `yaml:"rrule" validate:"required"`
	Shift string `yaml:"shift" validate:"required"`
	Count int    `yaml:"count" validate:"gte=0"`
}

// BoundsSpec limits a person's total shifts. A missing max is unbounded.
type BoundsSpec struct {
	Min int  `yaml:"min" validate:"gte=0"`
	Max *int `yaml:"max,omitempty" validate:"omitempty,gte=0"`
}

func (b BoundsSpec) bounds() roster.Bounds {
	return roster.Bounds{Min: b.Min, Max: b.Max}
}

// BoundsConfig holds the default bounds and per person overrides
type BoundsConfig struct {
	Default *BoundsSpec           `yaml:"default,omitempty"`
	People  map[string]BoundsSpec `yaml:"people,omitempty" validate:"dive"`
}

// SlotSpec is a shift on a day
type SlotSpec struct {
	Day   int    `yaml:"day" validate:"gte=0"`
	Shift string `yaml:"shift" validate:"required"`
}

// PairSpec is a pair of slots penalised when one person holds both
type PairSpec struct {
	A SlotSpec `yaml:"a"`
	B SlotSpec `yaml:"b"`
}

// RosterFile is the YAML description of a roster problem
type RosterFile struct {
	Name string `yaml:"name" validate:"required"`

	People []string `yaml:"people" validate:"required,min=1,dive,required"`

	// Days may be left out when requests are given
	Days int `yaml:"days,omitempty" validate:"gte=0"`

	// StartDate is the calendar date of day 0, needed for coverageOverrides and dated tabs
	StartDate string `yaml:"startDate,omitempty"`

	StandardShifts []string    `yaml:"standardShifts" validate:"required,min=1"`
	Shifts         []ShiftSpec `yaml:"shifts" validate:"required,min=1,dive"`

	// Requests maps a person to their [day][standard shift] signals. People left
	// out have no requests.
	Requests map[string][][]int `yaml:"requests,omitempty"`

	Coverage          CoverageSpec       `yaml:"coverage,omitempty"`
	CoverageOverrides []CoverageOverride `yaml:"coverageOverrides,omitempty" validate:"dive"`

	Bounds  BoundsConfig   `yaml:"bounds,omitempty"`
	Targets map[string]int `yaml:"targets,omitempty" validate:"dive,gte=0"`

	MinRestHours  float64        `yaml:"minRestHours,omitempty" validate:"gte=0"`
	DoubleBooking []PairSpec     `yaml:"doubleBooking,omitempty" validate:"dive"`
	Weights       *WeightsConfig `yaml:"weights,omitempty"`
}

// LoadRosterFile reads and validates a roster file
func LoadRosterFile(path string) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var rf RosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	if err := rf.Validate(); err != nil {
		return nil, err
	}

	return &rf, nil
}

// Save writes the roster file as YAML
func (rf *RosterFile) Save(path string) error {
	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("failed to encode roster file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}
	return nil
}

// Validate checks struct tags, the start date and rrule syntax
func (rf *RosterFile) Validate() error {
	if err := validate.Struct(rf); err != nil {
		return fmt.Errorf("roster file validation failed: %w", err)
	}

	if rf.StartDate != "" {
		if _, err := time.Parse(DateLayout, rf.StartDate); err != nil {
			return fmt.Errorf("invalid startDate: %w", err)
		}
	}

	if len(rf.CoverageOverrides) > 0 && rf.StartDate == "" {
		return fmt.Errorf("coverageOverrides require a startDate")
	}
	for i, override := range rf.CoverageOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in coverageOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// Start returns the parsed start date
func (rf *RosterFile) Start() (time.Time, bool) {
	if rf.StartDate == "" {
		return time.Time{}, false
	}
	start, err := time.Parse(DateLayout, rf.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

// horizon returns the number of days, taking it from the requests when not set
func (rf *RosterFile) horizon() int {
	if rf.Days > 0 {
		return rf.Days
	}
	for _, person := range rf.People {
		if rows, ok := rf.Requests[person]; ok {
			return len(rows)
		}
	}
	return 0
}

// Input resolves the file into a roster.Input. Structural checks are left to roster.New.
func (rf *RosterFile) Input(weights WeightsConfig) (roster.Input, error) {
	in := roster.Input{
		People:         rf.People,
		Days:           rf.Days,
		StandardShifts: rf.StandardShifts,
		Targets:        rf.Targets,
		MinRestHours:   rf.MinRestHours,
	}

	for _, spec := range rf.Shifts {
		shift := roster.Shift{Name: spec.Name}
		for _, pair := range spec.Intervals {
			iv, err := interval.New(pair[0], pair[1])
			if err != nil {
				return roster.Input{}, fmt.Errorf("shift %q: %w", spec.Name, err)
			}
			shift.Intervals = append(shift.Intervals, iv)
		}
		in.Shifts = append(in.Shifts, shift)
	}

	requests, err := rf.requestCube()
	if err != nil {
		return roster.Input{}, err
	}
	in.Requests = requests

	in.Coverage, err = rf.coverage()
	if err != nil {
		return roster.Input{}, err
	}

	if rf.Bounds.Default != nil {
		in.DefaultBounds = rf.Bounds.Default.bounds()
	}
	if len(rf.Bounds.People) > 0 {
		in.PersonBounds = make(map[string]roster.Bounds, len(rf.Bounds.People))
		for person, b := range rf.Bounds.People {
			in.PersonBounds[person] = b.bounds()
		}
	}

	for _, pair := range rf.DoubleBooking {
		in.DoubleBooking = append(in.DoubleBooking, roster.SlotPair{
			A: roster.Slot{Day: pair.A.Day, Shift: pair.A.Shift},
			B: roster.Slot{Day: pair.B.Day, Shift: pair.B.Shift},
		})
	}

	// file weights win over the application config
	layered := weights
	if rf.Weights != nil {
		layered = WeightsConfig{
			Preference:    firstSet(rf.Weights.Preference, weights.Preference),
			DoubleBooking: firstSet(rf.Weights.DoubleBooking, weights.DoubleBooking),
			Multiplicity:  firstSet(rf.Weights.Multiplicity, weights.Multiplicity),
		}
	}
	if layered.IsSet() {
		w := layered.Apply(roster.DefaultWeights())
		in.Weights = &w
	}

	return in, nil
}

// Roster resolves and validates the file into a roster
func (rf *RosterFile) Roster(weights WeightsConfig) (*roster.Roster, error) {
	in, err := rf.Input(weights)
	if err != nil {
		return nil, err
	}
	r, err := roster.New(in)
	if err != nil {
		return nil, fmt.Errorf("invalid roster %q: %w", rf.Name, err)
	}
	return r, nil
}

func (rf *RosterFile) requestCube() ([][][]roster.Signal, error) {
	if len(rf.Requests) == 0 {
		return nil, nil
	}

	known := make(map[string]int, len(rf.People))
	for p, person := range rf.People {
		known[person] = p
	}

	cube := roster.SignalCube(len(rf.People), rf.horizon(), len(rf.StandardShifts))
	for person, rows := range rf.Requests {
		p, ok := known[person]
		if !ok {
			return nil, fmt.Errorf("requests reference unknown person %q", person)
		}
		signals := make([][]roster.Signal, len(rows))
		for d, row := range rows {
			signals[d] = make([]roster.Signal, len(row))
			for s, raw := range row {
				signal, err := roster.ParseSignal(raw)
				if err != nil {
					return nil, fmt.Errorf("requests for %s, day %d: %w", person, d, err)
				}
				signals[d][s] = signal
			}
		}
		cube[p] = signals
	}
	return cube, nil
}

func (rf *RosterFile) coverage() (roster.Coverage, error) {
	cov := roster.Coverage{}
	if rf.Coverage.Default != nil {
		cov.Default = rf.Coverage.Default.requirement()
	}
	if len(rf.Coverage.Shifts) > 0 || len(rf.CoverageOverrides) > 0 {
		cov.ByShift = make(map[string]roster.Requirement, len(rf.Coverage.Shifts))
	}
	for shift, v := range rf.Coverage.Shifts {
		cov.ByShift[shift] = v.requirement()
	}

	if len(rf.CoverageOverrides) == 0 {
		return cov, nil
	}

	days := rf.horizon()
	start, ok := rf.Start()
	if !ok || days == 0 {
		return roster.Coverage{}, fmt.Errorf("coverageOverrides need a startDate and a known number of days")
	}

	for i, override := range rf.CoverageOverrides {
		hits, err := OverrideDays(override.RRule, start, days)
		if err != nil {
			return roster.Coverage{}, fmt.Errorf("coverageOverrides[%d]: %w", i, err)
		}
		if len(hits) == 0 {
			continue
		}

		base, ok := cov.ByShift[override.Shift]
		if !ok {
			base = cov.Default
		}
		if !base.IsSet() {
			base = roster.Uniform(roster.DefaultRequirement)
		}
		if err := base.Validate(days); err != nil {
			return roster.Coverage{}, fmt.Errorf("coverageOverrides[%d]: shift %q: %w", i, override.Shift, err)
		}

		counts := make([]int, days)
		for d := range counts {
			counts[d] = base.At(d)
		}
		for _, d := range hits {
			counts[d] = override.Count
		}
		cov.ByShift[override.Shift] = roster.PerDay(counts)
	}
	return cov, nil
}

// OverrideDays returns the horizon day indexes an RRULE hits, counting from start
func OverrideDays(rule string, start time.Time, days int) ([]int, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule: %w", err)
	}

	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 0, days-1)
	r.DTStart(first)

	var hits []int
	for _, occurrence := range r.Between(first, last, true) {
		day := int(occurrence.Sub(first).Hours() / 24)
		if day >= 0 && day < days {
			hits = append(hits, day)
		}
	}
	return hits, nil
}

func firstSet(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
