package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/workoutplanner/internal/persistence"

	"github.com/spf13/cobra"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored planner state with an exported snapshot",
		Long:  "Reads a JSON or YAML export and writes it over the stored state. Missing slices are filled with defaults. The format follows the file extension unless --format is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "import format [json | yaml]")
	return cmd
}

func runImport(cmd *cobra.Command, opts *rootOptions, path, formatName string) error {
	if formatName == "" {
		formatName = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	format, err := persistence.ParseFormat(formatName)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	st, err := openStore(cmd, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	imported, err := st.adapter.Import(payload, format)
	if err != nil {
		return err
	}
	if err := st.adapter.Save(cmd.Context(), imported); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d exercises, %d routines, %d plan dates, %d log entries\n",
		imported.Exercises.Len(),
		imported.Routines.Len(),
		len(imported.Planner.Plan),
		imported.Logs.Len(),
	)
	return nil
}
