package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-planner/internal/config"
	"github.com/jakechorley/shift-planner/pkg/core/roster"
	"github.com/jakechorley/shift-planner/pkg/core/services"
	"github.com/jakechorley/shift-planner/pkg/core/solver"
)

// PlanCmd creates the plan command
func PlanCmd(app *AppContext) *cobra.Command {
	var (
		outPath   string
		save      bool
		publish   bool
		timeLimit time.Duration
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "plan <roster.yaml>",
		Short: "Solve a roster and print the schedule",
		Long: `Solve a roster file for a schedule that meets every hard rule and scores
best on the soft goals, then print it by day with per-person counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterPath := args[0]
			app.Logger.Debug("plan command", zap.String("roster", rosterPath))

			rf, r, err := loadRoster(app, rosterPath)
			if err != nil {
				return err
			}

			params := solver.Params{
				TimeLimit: app.Cfg.Solver.TimeLimit(),
				Workers:   app.Cfg.Solver.Workers,
			}
			if cmd.Flags().Changed("time-limit") {
				params.TimeLimit = timeLimit
			}
			if cmd.Flags().Changed("workers") {
				params.Workers = workers
			}

			result, err := services.PlanShifts(app.Ctx, solver.NewSearch(app.Logger), r, params, app.Logger)
			if errors.Is(err, services.ErrInvalidSolution) {
				printViolations(cmd.OutOrStdout(), result.Violations)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			plan := result.Plan
			fmt.Fprintf(out, "\nStatus: %s\n", plan.Status)

			start := rosterStart(rf)
			if plan.Status.HasSolution() {
				fmt.Fprintf(out, "Objective: %d (%s)\n", plan.Objective, plan.WallTime.Round(time.Millisecond))
				printSchedule(out, r, plan.Solution, start)
				printCounts(out, r, plan.ShiftCounts)
				printDiagnostics(out, plan.PreferencesHonored, plan.PreferencesRequested, plan.DoubleBookings, plan.Multiplicities)
			} else {
				fmt.Fprintln(out, "No schedule found.")
			}

			if save {
				database, err := app.Database()
				if err != nil {
					return err
				}
				run, err := services.SavePlan(app.Ctx, database, app.Logger, rf.Name, r, plan)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Saved run %s\n", run.ID)
			}

			if !plan.Status.HasSolution() {
				return nil
			}

			if outPath != "" {
				sf := config.ScheduleFile{
					Roster: rf.Name,
					Status: string(plan.Status),
					Days:   r.ToDays(plan.Solution),
				}
				if err := sf.Save(outPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Wrote schedule to %s\n", outPath)
			}

			if publish {
				if err := publishSolution(app, r, plan.Solution, start); err != nil {
					return err
				}
				fmt.Fprintln(out, "✓ Published schedule")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the schedule to a YAML file")
	cmd.Flags().BoolVar(&save, "save", false, "Save the run to the database")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the schedule to the schedule spreadsheet")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", config.DefaultTimeLimit, "Solver time limit")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel solver workers")

	return cmd
}

// loadRoster reads a roster file and builds the roster with the configured weights
func loadRoster(app *AppContext, path string) (*config.RosterFile, *roster.Roster, error) {
	rf, err := config.LoadRosterFile(path)
	if err != nil {
		return nil, nil, err
	}

	r, err := rf.Roster(app.Cfg.Weights)
	if err != nil {
		return nil, nil, err
	}

	app.Logger.Debug("Loaded roster",
		zap.String("name", rf.Name),
		zap.Int("people", r.NumPeople()),
		zap.Int("days", r.Days()),
		zap.Int("shifts", r.NumShifts()))

	return rf, r, nil
}

// rosterStart returns the roster's start date, or nil for numbered days
func rosterStart(rf *config.RosterFile) *time.Time {
	start, ok := rf.Start()
	if !ok {
		return nil
	}
	return &start
}

func publishSolution(app *AppContext, r *roster.Roster, sol roster.Solution, start *time.Time) error {
	client, err := app.SheetsClient()
	if err != nil {
		return err
	}
	_, err = services.PublishSchedule(app.Ctx, client, r, sol, app.Cfg.ScheduleSheetID, start, app.Logger)
	return err
}
