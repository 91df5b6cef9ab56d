package main

import (
	"fmt"
	"strings"

	"github.com/2beens/workoutplanner/internal/plannermcp"
	"github.com/2beens/workoutplanner/internal/workout"

	"github.com/spf13/cobra"
)

func newWeekCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the plan of a week",
		Long:  "Prints the seven days of the week containing --date, or of the current planner week.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			week, err := plannermcp.NewContextService(st).WeekPlan(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "week of %s\n", week.WeekStartISO)
			for _, day := range week.Days {
				names := make([]string, 0, len(day.Items))
				for _, item := range day.Items {
					names = append(names, itemLabel(st, item))
				}
				if len(names) == 0 {
					names = append(names, "-")
				}
				fmt.Fprintf(out, "%-9s %s  %s\n", day.Day, day.DateISO, strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any date (YYYY-MM-DD) of the wanted week")
	return cmd
}

func itemLabel(st *plannerStore, item workout.PlanItem) string {
	switch it := item.(type) {
	case workout.ExerciseItem:
		if exercise, ok := st.state.Exercises.Get(it.ExerciseID); ok {
			return exercise.Name
		}
		return it.ExerciseID
	case workout.RoutineItem:
		return fmt.Sprintf("%s (%d exercises)", it.Name, len(it.ExerciseIDs))
	default:
		return fmt.Sprintf("%T", item)
	}
}
