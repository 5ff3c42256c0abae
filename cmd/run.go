package cmd

import (
	"github.com/spf13/cobra"

	"github.com/f4hrenh9it/go-testrail/config"
	"github.com/f4hrenh9it/go-testrail/runner"
	"github.com/f4hrenh9it/go-testrail/tags"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the features, then update TestRail on CI builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := opts.logger()
			defer l.Sync() //nolint:errcheck

			props, err := opts.properties(ctx, l)
			if err != nil {
				return err
			}
			inv := runner.FromProperties(props, tags.FromProperties(props))
			runErr := runner.New(l).Run(ctx, inv)
			if runErr != nil {
				l.Warnf("feature run: %v", runErr)
			}

			// TestRail is updated whatever the outcome of the run.
			if err := opts.update(ctx, l); err != nil {
				return err
			}
			return runner.Assert(runErr, props.GetBool(config.FailIfFailures, false))
		},
	}
}
