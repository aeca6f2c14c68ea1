package cli

import (
	"fmt"

	"luckycat-cli/internal/model"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Print the activity feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			var (
				items []model.Notification
				err   error
			)
			if all {
				items, err = app.client.AllNotifications(cmd.Context())
			} else {
				items, err = app.client.Notifications(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := map[string]any{
				"unread":  model.UnreadCount(items),
				"results": items,
			}
			return app.write(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include already-read history")

	cmd.AddCommand(&cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if err := app.client.MarkAllNotificationsRead(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All notifications marked read")
			return nil
		},
	})
	return cmd
}
