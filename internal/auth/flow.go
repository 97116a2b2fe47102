package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/nav"
	"github.com/wolfeidau/revenueguard/internal/session"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

// Service is the subset of the auth endpoints the flows call.
type Service interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.LoginResponse, error)
	Signup(ctx context.Context, req client.SignupRequest) (*client.MessageResponse, error)
	Verify(ctx context.Context, req client.VerifyRequest) (*client.MessageResponse, error)
	ChangePassword(ctx context.Context, req client.ChangePasswordRequest) (*client.MessageResponse, error)
}

var _ Service = (*client.AuthAPI)(nil)

// Flow drives login, logout and password changes.
type Flow struct {
	api    Service
	store  tokenstore.Store
	router nav.Navigator
}

func NewFlow(api Service, store tokenstore.Store, router nav.Navigator) *Flow {
	return &Flow{api: api, store: store, router: router}
}

// Login submits credentials. On success the session is persisted and the
// router is sent to the entry view for the session's roles. On failure
// nothing is persisted.
func (f *Flow) Login(ctx context.Context, username, password string) (*session.Session, nav.Route, error) {
	resp, err := f.api.Login(ctx, client.LoginRequest{Username: username, Password: password})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		if errors.Is(err, client.ErrUnreachable) {
			return nil, "", &Failure{Message: client.MessageOf(err, ""), Err: err}
		}
		log.Debug().Err(err).Str("username", username).Msg("login rejected")
		return nil, "", &Failure{
			Message: "Invalid username or password.",
			Err:     fmt.Errorf("%w: %w", ErrInvalidCredentials, err),
		}
	}

	if resp.Token == "" {
		return nil, "", &Failure{Message: "Invalid username or password.", Err: ErrInvalidCredentials}
	}

	sess := &session.Session{
		Token:       resp.Token,
		DisplayName: resp.Username,
		Roles:       resp.Roles,
	}

	if err := session.Save(f.store, sess); err != nil {
		// never leave half a session behind
		_ = session.Destroy(f.store)
		return nil, "", fmt.Errorf("failed to persist session: %w", err)
	}

	route := session.LandingRoute(sess.Roles)

	log.Info().
		Str("user", sess.DisplayName).
		Strs("roles", sess.Roles).
		Str("route", string(route)).
		Msg("logged in")

	f.router.Navigate(route)

	return sess, route, nil
}

// Logout removes the session and returns to the login view. Chat session
// ids are kept.
func (f *Flow) Logout() error {
	if err := session.Destroy(f.store); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	f.router.Navigate(nav.RouteLogin)
	return nil
}

// ChangePassword validates the form locally, then asks the backend to
// change the password. It returns the backend's confirmation.
func (f *Flow) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) (string, error) {
	if err := ValidatePasswordChange(newPassword, confirm); err != nil {
		return "", err
	}

	resp, err := f.api.ChangePassword(ctx, client.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return "", &Failure{Message: client.MessageOf(err, "Failed to change password."), Err: err}
	}

	return resp.Message, nil
}
