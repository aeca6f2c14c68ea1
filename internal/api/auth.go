package api

import (
	"context"
	"net/http"

	"luckycat-cli/internal/model"
)

// TokenPair is the access/refresh pair returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	var out TokenPair
	if err := c.do(ctx, http.MethodPost, "auth/login/", body, &out); err != nil {
		return TokenPair{}, err
	}
	return out, nil
}

// Logout invalidates the refresh token server-side. Callers clear local state
// regardless of the result.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.do(ctx, http.MethodPost, "auth/logout/", body, nil)
}

func (c *Client) PasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "auth/password/reset/", map[string]string{"email": email}, nil)
}

func (c *Client) PasswordResetConfirm(ctx context.Context, uid, token, password1, password2 string) error {
	body := map[string]string{
		"uid":           uid,
		"token":         token,
		"new_password1": password1,
		"new_password2": password2,
	}
	return c.do(ctx, http.MethodPost, "auth/password/reset/confirm/", body, nil)
}

func (c *Client) ResendVerificationEmail(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "auth/registration/resend-email/", map[string]string{"email": email}, nil)
}

// CurrentUser returns the authenticated user's identity.
func (c *Client) CurrentUser(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodGet, "profiles/auth/user/", nil, &out); err != nil {
		return model.Profile{}, err
	}
	return out, nil
}
