package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erickhangati/mapty/internal/tracker"
	"github.com/erickhangati/mapty/internal/workout"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Type string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved workouts",
		Long: `List the workouts in the configured slot, in logging order.

Examples:
  maptyctl list
  maptyctl list --type cycling
  maptyctl list --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "only list workouts of this type (running|cycling)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	var kind workout.Kind
	if opts.Type != "" {
		k, ok := workout.ParseKind(opts.Type)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid type %q: must be running or cycling", opts.Type))
		}
		kind = k
	}

	gw, slot, err := openGateway(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer slot.Close()

	store := workout.NewStore()
	store.Hydrate(gw.Load(ctx))

	list := make([]workout.Workout, 0, store.Len())
	for _, w := range store.List() {
		if kind == "" || w.Kind == kind {
			list = append(list, w)
		}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), list)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No workouts saved.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tDATE\tDISTANCE\tDURATION\tMETRIC\tCOORDS")
	for _, w := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g km\t%g min\t%s\t%.4f,%.4f\n",
			w.ID, w.Kind, w.Date.Format("2006-01-02 15:04"), w.Distance, w.Duration,
			tracker.Metric(w), w.Coords.Lat(), w.Coords.Lng())
	}
	return tw.Flush()
}
