package cli

import (
	"fmt"
	"strconv"

	"luckycat-cli/internal/api"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var validate = validator.New()

func newPostsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Create, inspect and manage cat-sitting posts",
	}
	cmd.AddCommand(newPostsGetCmd(app))
	cmd.AddCommand(newPostsCreateCmd(app))
	cmd.AddCommand(newPostsUpdateCmd(app))
	cmd.AddCommand(newPostsDeleteCmd(app))
	return cmd
}

func parsePostID(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("post id must be a number, got %q", args[0])
	}
	return id, nil
}

func newPostsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			id, err := parsePostID(args)
			if err != nil {
				return err
			}
			p, err := app.client.Post(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.write(cmd.OutOrStdout(), p)
		},
	}
}

func newPostsCreateCmd(app *App) *cobra.Command {
	var in api.CreatePostInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post, optionally with an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if err := validate.Struct(in); err != nil {
				return fmt.Errorf("title and category are required")
			}
			p, err := app.client.CreatePost(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.write(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "post title")
	cmd.Flags().StringVar(&in.Category, "category", "", "post category (e.g. sitter_wanted, cat_available)")
	cmd.Flags().StringVar(&in.Content, "content", "", "post body (markdown)")
	cmd.Flags().StringVar(&in.ImagePath, "image", "", "path to an image to attach")
	return cmd
}

func newPostsUpdateCmd(app *App) *cobra.Command {
	var title, category, content string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a post's title, category and body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			id, err := parsePostID(args)
			if err != nil {
				return err
			}
			if title == "" || category == "" {
				return fmt.Errorf("--title and --category are required")
			}
			p, err := app.client.UpdatePost(cmd.Context(), id, title, category, content)
			if err != nil {
				return err
			}
			return app.write(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&category, "category", "", "post category")
	cmd.Flags().StringVar(&content, "content", "", "post body (markdown)")
	return cmd
}

func newPostsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			id, err := parsePostID(args)
			if err != nil {
				return err
			}
			if err := app.client.DeletePost(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted\n", id)
			return nil
		},
	}
}
