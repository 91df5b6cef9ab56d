package main

import (
	"fmt"
	"os"

	"github.com/2beens/workoutplanner/internal/persistence"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored planner state",
		Long:  "Writes the whole stored state as indented JSON or YAML to stdout, or to --out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, format, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format [json | yaml]")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, opts *rootOptions, formatName, out string) error {
	format, err := persistence.ParseFormat(formatName)
	if err != nil {
		return err
	}

	st, err := openStore(cmd, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := persistence.Export(st.state, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", out)
	return nil
}
