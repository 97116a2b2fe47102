package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfeidau/revenueguard/internal/auth"
	"github.com/wolfeidau/revenueguard/internal/session"
)

// LoginCmd signs in and stores the session.
type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Username or email"`
	Password string `help:"Password (prompted when empty)" env:"REVENUEGUARD_PASSWORD"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open()
	if err != nil {
		return err
	}
	defer a.close()

	username, err := a.valueOrPrompt(c.Username, "Username")
	if err != nil {
		return err
	}
	password, err := a.valueOrPrompt(c.Password, "Password")
	if err != nil {
		return err
	}

	sess, route, err := a.flow.Login(ctx, username, password)
	if err != nil {
		return errors.New(auth.UserMessage(err))
	}

	fmt.Fprintf(a.out, "Logged in as %s.\n", sess.DisplayName)
	if len(sess.Roles) > 0 {
		fmt.Fprintf(a.out, "Roles:   %s\n", strings.Join(sess.Roles, ", "))
	}
	fmt.Fprintf(a.out, "Console: %s\n", route)

	return nil
}

// LogoutCmd removes the stored session.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.guard.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	if err := a.flow.Logout(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoamiCmd shows the stored session.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open()
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.requireSession("")
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "User:         %s\n", sess.DisplayName)
	fmt.Fprintf(a.out, "Roles:        %s\n", strings.Join(sess.Roles, ", "))
	fmt.Fprintf(a.out, "Console:      %s\n", session.LandingRoute(sess.Roles))
	fmt.Fprintf(a.out, "Token:        %s...\n", session.Fingerprint(sess.Token))
	fmt.Fprintf(a.out, "Server:       %s\n", a.cfg.Server)

	info, err := session.InspectToken(sess.Token)
	if err != nil {
		return nil
	}

	if info.Subject != "" {
		fmt.Fprintf(a.out, "Subject:      %s\n", info.Subject)
	}
	if !info.IssuedAt.IsZero() {
		fmt.Fprintf(a.out, "Issued:       %s\n", info.IssuedAt.Format("2006-01-02 15:04:05"))
	}
	if !info.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires:      %s\n", info.ExpiresAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

// PasswordCmd changes the signed in user's password.
type PasswordCmd struct {
	Old     string `help:"Current password" env:"REVENUEGUARD_OLD_PASSWORD"`
	New     string `help:"New password" env:"REVENUEGUARD_NEW_PASSWORD"`
	Confirm string `help:"Repeat the new password"`
}

func (c *PasswordCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open()
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.requireSession(""); err != nil {
		return err
	}

	oldPassword, err := a.valueOrPrompt(c.Old, "Current password")
	if err != nil {
		return err
	}
	newPassword, err := a.valueOrPrompt(c.New, "New password")
	if err != nil {
		return err
	}
	confirm := c.Confirm
	if confirm == "" {
		if c.New != "" {
			confirm = c.New
		} else if confirm, err = a.prompt("Confirm new password", ""); err != nil {
			return err
		}
	}

	msg, err := a.flow.ChangePassword(ctx, oldPassword, newPassword, confirm)
	if err != nil {
		return errors.New(auth.UserMessage(err))
	}

	if msg == "" {
		msg = "Password changed."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}
