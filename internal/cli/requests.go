package cli

import (
	"fmt"
	"strconv"

	"luckycat-cli/internal/model"
	"luckycat-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newRequestsCmd(app *App) *cobra.Command {
	var focus, message int

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Open the sitting-request negotiation view",
		Long: "Opens the TUI on the requests view. --focus pre-selects a request and " +
			"--message scrolls its chat thread to a specific message, the same deep link " +
			"notification click-throughs use.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			return runTUI(app, tui.Options{
				StartView:      "requests",
				FocusRequestID: focus,
				FocusMessageID: message,
			})
		},
	}
	cmd.Flags().IntVar(&focus, "focus", 0, "request id to pre-select")
	cmd.Flags().IntVar(&message, "message", 0, "message id to scroll to")

	cmd.AddCommand(newRequestsListCmd(app))
	cmd.AddCommand(newRequestsCreateCmd(app))
	return cmd
}

func newRequestsCreateCmd(app *App) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "create <post-id>",
		Short: "Send a sitting request against a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			postID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("post id must be a number, got %q", args[0])
			}
			req, err := app.client.CreateRequest(cmd.Context(), postID, message)
			if err != nil {
				return err
			}
			return app.write(cmd.OutOrStdout(), req)
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "introduction message shown with the request")
	return cmd
}

func newRequestsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the merged sent+received request list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			ctx := cmd.Context()
			received, err := app.client.IncomingRequests(ctx)
			if err != nil {
				return err
			}
			sent, err := app.client.SentRequests(ctx)
			if err != nil {
				return err
			}
			type row struct {
				model.SittingRequest
				Direction string `json:"direction"`
			}
			merged := model.MergeRequests(received, sent)
			rows := make([]row, 0, len(merged))
			for _, ref := range merged {
				dir := "received"
				if ref.Outgoing {
					dir = "sent"
				}
				rows = append(rows, row{SittingRequest: ref.SittingRequest, Direction: dir})
			}
			return app.write(cmd.OutOrStdout(), rows)
		},
	}
}
