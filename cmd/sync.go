package cmd

import (
	"github.com/spf13/cobra"

	"github.com/f4hrenh9it/go-testrail/config"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the existing reports to TestRail",
		Long: `sync uploads the reports found in apitest.json.report.dir. Outside a CI
build (` + config.BuildNumber + ` unset) nothing happens unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := opts.logger()
			defer l.Sync() //nolint:errcheck

			if !force {
				return opts.update(ctx, l)
			}
			s, err := opts.syncer(ctx, l)
			if err != nil {
				return err
			}
			return s.Execute(ctx)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "synchronize even when not running as a CI build")
	return cmd
}
