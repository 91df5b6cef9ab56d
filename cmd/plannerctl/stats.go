package main

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/workoutplanner/internal/plannermcp"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute stats over the stored logs",
	}

	cmd.AddCommand(newStatsBestCmd(opts))
	cmd.AddCommand(newStatsTrendCmd(opts))
	cmd.AddCommand(newStatsCompletionCmd(opts))
	return cmd
}

func newStatsBestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "best <exercise-id>",
		Short: "Print the personal best of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			best, err := plannermcp.NewContextService(st).PersonalBest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", best.Name, best.Text)
			return nil
		},
	}
}

func newStatsTrendCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend <exercise-id>",
		Short: "Print the progress trend of an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			st, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			trend, err := plannermcp.NewContextService(st).ProgressTrend(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			return printJSON(cmd, trend)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 30, "window in days counted back from today")
	return cmd
}

func newStatsCompletionCmd(opts *rootOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Print planned vs logged exercises per date",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			completion, err := plannermcp.NewContextService(st).CompletionStats(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			return printJSON(cmd, completion)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	cmd.MarkFlagsRequiredTogether("from", "to")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}
