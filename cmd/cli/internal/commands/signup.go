package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfeidau/revenueguard/internal/auth"
)

// SignupCmd registers a new customer. Details are prompted for when not
// given as flags; the one-time code is always prompted for.
type SignupCmd struct {
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	Email     string `help:"Email, also used as the username"`
	Phone     string `help:"Phone number"`
	Password  string `help:"Password" env:"REVENUEGUARD_PASSWORD"`
	Segment   string `help:"Billing segment" enum:"POSTPAID,PREPAID" default:"POSTPAID"`
}

func (c *SignupCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := globals.open()
	if err != nil {
		return err
	}
	defer a.close()

	s := auth.NewSignup(a.clients.Auth, a.router, auth.WithRedirectDelay(a.cfg.RedirectDelay))

	draft := auth.Profile{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Password:  c.Password,
		Segment:   c.Segment,
	}
	// flags are used as-is on the first pass only
	askAll := false

	for {
		switch s.State() {
		case auth.StateDetails:
			profile, err := c.details(a, draft, askAll)
			if err != nil {
				return err
			}
			askAll = true

			if err := s.SubmitDetails(ctx, profile); err != nil {
				if errors.Is(err, auth.ErrWrongState) {
					return err
				}
				printMessage(a.out, err)
				draft = s.Draft()
				continue
			}

			if notice := s.Notice(); notice != "" {
				fmt.Fprintln(a.out, notice)
			}
			fmt.Fprintln(a.out, "Enter the code sent to your phone, or 'back' to edit your details.")

		case auth.StateVerify:
			code, err := a.prompt("Verification code", "")
			if err != nil {
				return err
			}

			if strings.EqualFold(code, "back") {
				if err := s.Back(); err != nil {
					return err
				}
				draft = s.Draft()
				continue
			}

			if err := s.SubmitCode(ctx, code); err != nil {
				printMessage(a.out, err)
				continue
			}

		case auth.StateRegistered:
			fmt.Fprintln(a.out, s.Notice())
			fmt.Fprintln(a.out, "Redirecting to login...")

			select {
			case <-s.Done():
			case <-ctx.Done():
				s.Reset()
				return ctx.Err()
			}

			fmt.Fprintln(a.out, "Run 'revenueguard login' to sign in.")
			return nil
		}
	}
}

func (c *SignupCmd) details(a *app, draft auth.Profile, askAll bool) (auth.Profile, error) {
	p := draft

	fields := []struct {
		label  string
		value  *string
		secret bool
	}{
		{"First name", &p.FirstName, false},
		{"Last name", &p.LastName, false},
		{"Email", &p.Email, false},
		{"Phone", &p.Phone, false},
		{"Password", &p.Password, true},
	}

	for _, f := range fields {
		if *f.value != "" && !askAll {
			continue
		}

		label, def := f.label, *f.value
		if f.secret && def != "" {
			label, def = f.label+" (enter to keep)", ""
		}

		v, err := a.prompt(label, def)
		if err != nil {
			return auth.Profile{}, err
		}
		if v != "" || !f.secret {
			*f.value = v
		}
	}

	return p, nil
}
