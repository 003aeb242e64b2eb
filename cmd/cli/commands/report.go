package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jakechorley/shift-planner/pkg/core/extract"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/services"
	"github.com/jakechorley/shift-planner/pkg/core/validator"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorDim   = "\033[2m"
)

// printSchedule writes the solution day by day, one line per shift with people
func printSchedule(w io.Writer, r *roster.Roster, sol roster.Solution, start *time.Time) {
	titles := services.DayTitles(r, start)
	days := r.ToDays(sol)

	for d, day := range days {
		fmt.Fprintf(w, "\n%s\n", titles[d])
		empty := true
		for _, shift := range r.Shifts() {
			people := day[shift.Name]
			if len(people) == 0 {
				continue
			}
			empty = false
			fmt.Fprintf(w, "  %-12s %s\n", shift.Name, strings.Join(people, ", "))
		}
		if empty {
			fmt.Fprintf(w, "  %s(nobody assigned)%s\n", colorDim, colorReset)
		}
	}
	fmt.Fprintln(w)
}

// printCounts writes every person's total in roster order
func printCounts(w io.Writer, r *roster.Roster, counts map[string]int) {
	nameWidth := 10
	for _, person := range r.People() {
		nameWidth = max(nameWidth, len(person))
	}

	fmt.Fprintln(w, "Shifts per person:")
	for p, person := range r.People() {
		line := fmt.Sprintf("  %-*s %3d", nameWidth, person, counts[person])
		if target, ok := r.Target(p); ok {
			line += fmt.Sprintf("  (target %d)", target)
		} else {
			lo, hi := r.TotalBounds(p)
			line += fmt.Sprintf("  (%d-%d)", lo, hi)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// printDiagnostics writes the soft-goal figures of a schedule
func printDiagnostics(w io.Writer, honored, requested int, doubles []extract.DoubleBooking, multis []extract.Multiplicity) {
	fmt.Fprintf(w, "Preferences honored: %d/%d\n", honored, requested)

	if len(doubles) > 0 {
		fmt.Fprintf(w, "Double bookings (%d):\n", len(doubles))
		for _, booking := range doubles {
			fmt.Fprintf(w, "  %s: day %d %s and day %d %s\n",
				booking.Person, booking.Pair.A.Day, booking.Pair.A.Shift, booking.Pair.B.Day, booking.Pair.B.Shift)
		}
	}

	if len(multis) > 0 {
		fmt.Fprintf(w, "Several shifts on one day (%d):\n", len(multis))
		for _, m := range multis {
			fmt.Fprintf(w, "  %s: day %d %s\n", m.Person, m.Day, strings.Join(m.Shifts, ", "))
		}
	}
	fmt.Fprintln(w)
}

// printViolations writes one line per violation, or a success line when there are none
func printViolations(w io.Writer, violations []validator.Violation) {
	if len(violations) == 0 {
		fmt.Fprintf(w, "%s✓ No hard rule violations%s\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(w, "%s✗ %d hard rule violations:%s\n", colorRed, len(violations), colorReset)
	for _, v := range violations {
		fmt.Fprintf(w, "  %s\n", v.Message())
	}
}
