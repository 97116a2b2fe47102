package client

import (
	"context"
	"net/http"
)

// AuthAPI binds the /api/auth endpoints. Login, signup and verify run
// before any session exists and use the public client; change-password
// needs the session and uses the protected client.
type AuthAPI struct {
	public    *Client
	protected *Client
}

func (a *AuthAPI) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.public.Do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup submits the profile and asks the backend to send a one-time code.
func (a *AuthAPI) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := a.public.Do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify replays the profile with the one-time code to complete signup.
func (a *AuthAPI) Verify(ctx context.Context, req VerifyRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := a.public.Do(ctx, http.MethodPost, "/auth/verify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := a.protected.Do(ctx, http.MethodPost, "/auth/change-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
