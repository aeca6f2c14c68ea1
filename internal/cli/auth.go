package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"luckycat-cli/internal/format"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func writeOut(w io.Writer, v any, formatName string, pretty bool) error {
	return format.Write(w, v, formatName, pretty)
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				r := bufio.NewReader(cmd.InOrStdin())
				line, err := r.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = string(b)
			}
			if strings.TrimSpace(username) == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}
			if err := app.session.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", app.session.Username())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the refresh token and clear local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Local state clears even when the server call fails.
			app.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			out := map[string]any{
				"user_id":  app.session.UserID(),
				"username": app.session.Username(),
			}
			if exp := app.session.TokenExpiry(); !exp.IsZero() {
				out["token_expires_at"] = exp
			}
			return app.write(cmd.OutOrStdout(), out)
		},
	}
}

func newPasswordResetCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "password-reset",
		Short: "Start the password reset flow for an email address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required")
			}
			if err := app.client.PasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reset email sent (check the inbox)")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email address")
	cmd.AddCommand(newPasswordResetConfirmCmd(app))
	return cmd
}

func promptPassword(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newPasswordResetConfirmCmd(app *App) *cobra.Command {
	var uid, token, password string

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Complete the reset with the uid and token from the email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(uid) == "" || strings.TrimSpace(token) == "" {
				return fmt.Errorf("--uid and --token are required")
			}
			password1 := password
			password2 := password
			if password1 == "" {
				var err error
				if password1, err = promptPassword(cmd, "New password: "); err != nil {
					return err
				}
				if password2, err = promptPassword(cmd, "Repeat password: "); err != nil {
					return err
				}
			}
			// Mismatch and empty input fail before any network call.
			if password1 == "" {
				return fmt.Errorf("a new password is required")
			}
			if password1 != password2 {
				return fmt.Errorf("passwords do not match")
			}
			if err := app.client.PasswordResetConfirm(cmd.Context(), uid, token, password1, password2); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "uid from the reset email link")
	cmd.Flags().StringVar(&token, "token", "", "token from the reset email link")
	cmd.Flags().StringVar(&password, "password", "", "new password (prompted twice when omitted)")
	return cmd
}

func newResendEmailCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "resend-email",
		Short: "Resend the account verification email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required")
			}
			if err := app.client.ResendVerificationEmail(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Verification email sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email address")
	return cmd
}
