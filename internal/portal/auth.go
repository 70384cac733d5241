package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	pathLogin   = "/api/auth/login"
	pathProfile = "/api/auth/profile"
)

// LoginResult is a successful lecturer login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates with email and password. Accounts whose role is not
// Lecturer are rejected with ErrNotLecturer. On success the client uses the
// returned token for subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrMissingArgument)
	}

	payload := map[string]string{"email": email, "password": password}
	body, err := c.do(ctx, http.MethodPost, pathLogin, nil, payload)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var res LoginResult
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: login: %w", ErrInvalidResponse, err)
	}
	if res.User.Role != RoleLecturer {
		return nil, ErrNotLecturer
	}
	if res.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", ErrInvalidResponse)
	}

	c.SetToken(res.Token)
	c.logger.Info().Ctx(ctx).Str("user_id", res.User.ID).Msg("lecturer logged in")
	return &res, nil
}

// Profile returns the signed-in lecturer's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var envelope struct {
		Data *rawProfile `json:"data"`
		User *rawProfile `json:"user"`
		rawProfile
	}
	if _, err := c.getJSON(ctx, pathProfile, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	raw := envelope.rawProfile
	switch {
	case envelope.Data != nil:
		raw = *envelope.Data
	case envelope.User != nil:
		raw = *envelope.User
	}
	profile := raw.normalize()
	return &profile, nil
}
