package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Yes bool
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved workout slot",
		Long: `Delete the saved workout slot entirely. A running server keeps its
in-memory workouts until restarted.

Examples:
  maptyctl reset --yes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm deletion")

	return cmd
}

func runReset(opts *ResetOptions, cmd *cobra.Command) error {
	if !opts.Yes {
		return NewExitError(ExitCommandError, "refusing to reset without --yes")
	}
	ctx := context.Background()

	gw, slot, err := openGateway(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer slot.Close()

	if err := gw.Clear(ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to reset", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared slot %q\n", gw.Key())
	return nil
}
