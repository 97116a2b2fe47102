package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/revenueguard/internal/chat"
	"github.com/wolfeidau/revenueguard/internal/nav"
)

// ChatCmd opens an interactive session with the assistant. Lines starting
// with /clear or /quit are commands.
type ChatCmd struct {
	Admin   bool   `help:"Use the admin assistant instead of customer support"`
	Message string `short:"m" help:"Send one message and exit"`
}

func (c *ChatCmd) Run(ctx context.Context, globals *Globals) error {
	route := nav.RouteCustomerDashboard
	if c.Admin {
		route = nav.RouteAdminDashboard
	}

	a, err := sessionApp(globals, route)
	if err != nil {
		return err
	}
	defer a.close()

	var w *chat.Widget
	if c.Admin {
		w = chat.NewWidget(a.clients.Admin, chat.ContextAdmin, chat.AdminTheme, a.store)
	} else {
		w = chat.NewWidget(a.clients.Customer, chat.ContextCustomer, chat.CustomerTheme, a.store)
	}

	if c.Message != "" {
		reply, err := w.Send(ctx, c.Message)
		fmt.Fprintln(a.out, reply)
		return err
	}

	theme := w.Theme()
	fmt.Fprintf(a.out, "%s (type /clear to start over, /quit to exit)\n", theme.Title)
	fmt.Fprintln(a.out, theme.Greeting)

	for {
		line, err := a.prompt("you", "")
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				return nil
			}
			return err
		}

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			_ = w.ClearHistory(ctx)
		default:
			_, _ = w.Send(ctx, line)
		}

		transcript := w.Transcript()
		fmt.Fprintf(a.out, "ai: %s\n", transcript[len(transcript)-1].Text)

		if !a.guard.IsAuthenticated() {
			return fmt.Errorf("session ended")
		}
	}
}
