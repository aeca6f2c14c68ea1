package cli

import (
	"github.com/spf13/cobra"
)

func newFeedCmd(app *App) *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print one page of the post feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			p, err := app.client.Feed(cmd.Context(), page)
			if err != nil {
				return err
			}
			return app.write(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "cursor link from a previous page's next/previous field")
	return cmd
}
