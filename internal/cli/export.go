package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/erickhangati/mapty/internal/workout"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved workouts as a JSON array",
		Long: `Write the saved workouts as the same JSON array the server stores.

Examples:
  maptyctl export > workouts.json
  maptyctl export -o workouts.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	gw, slot, err := openGateway(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer slot.Close()

	records := gw.Load(ctx)
	if records == nil {
		records = []workout.Record{}
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output file", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeJSON(out, records); err != nil {
		return WrapExitError(ExitFailure, "failed to write export", err)
	}
	if opts.Output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d workouts to %s\n", len(records), opts.Output)
	}
	return nil
}

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Input string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace saved workouts with a JSON export",
		Long: `Replace the saved workouts with the contents of an export file.
Records with an unknown type or a repeated id are skipped.

Examples:
  maptyctl import -i workouts.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "export file to read (required)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runImport(opts *ImportOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input file", err)
	}
	var records []workout.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return WrapExitError(ExitFailure, "input is not a workout export", err)
	}

	gw, slot, err := openGateway(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer slot.Close()

	store := workout.NewStore()
	skipped := store.Hydrate(records)
	if err := gw.Save(ctx, store.List()); err != nil {
		return WrapExitError(ExitFailure, "failed to save workouts", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]int{"imported": store.Len(), "skipped": skipped})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d workouts (%d skipped)\n", store.Len(), skipped)
	return nil
}
