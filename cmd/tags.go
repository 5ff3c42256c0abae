package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f4hrenh9it/go-testrail/tags"
)

func newTagsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print the tag filter handed to the feature runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := opts.logger()
			defer l.Sync() //nolint:errcheck

			props, err := opts.properties(cmd.Context(), l)
			if err != nil {
				return err
			}
			for _, t := range tags.FromProperties(props) {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
