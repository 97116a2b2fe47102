package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/auth"
	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/config"
	"github.com/wolfeidau/revenueguard/internal/nav"
	"github.com/wolfeidau/revenueguard/internal/session"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

// ErrInputClosed is returned when a prompt reaches the end of input.
var ErrInputClosed = errors.New("input closed")

type Globals struct {
	Debug   bool
	Version string

	Config    string
	Server    string
	Store     string
	StorePath string
	Profile   string

	Stdin  io.Reader
	Stdout io.Writer
}

// app is everything a command needs, built from config and flags.
type app struct {
	cfg     *config.Config
	store   tokenstore.Store
	clients *client.Clients
	router  *nav.Router
	guard   *session.Guard
	flow    *auth.Flow

	in  *bufio.Reader
	out io.Writer

	unwatch []func()
}

func (g *Globals) open() (*app, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if g.Server != "" {
		cfg.Server = g.Server
	}
	if g.Store != "" {
		cfg.Store = tokenstore.Backend(g.Store)
	}
	if g.StorePath != "" {
		cfg.StorePath = g.StorePath
	}
	if g.Profile != "" {
		cfg.Profile = g.Profile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	clients := client.NewClients(client.Config{
		ServerURL: cfg.Server,
		Timeout:   cfg.Timeout,
		Debug:     g.Debug,
		Store:     store,
	})

	a := &app{
		cfg:     cfg,
		store:   store,
		clients: clients,
		router:  nav.NewRouter(nav.RouteLogin),
		guard:   session.NewGuard(store),
		in:      bufio.NewReader(g.stdin()),
		out:     g.stdout(),
	}
	a.flow = auth.NewFlow(clients.Auth, store, a.router)

	a.unwatch = append(a.unwatch,
		a.router.Watch(clients.Events),
		clients.Events.OnSessionInvalidated(func(client.SessionInvalidated) {
			fmt.Fprintln(a.out, "Your session has expired. Run 'revenueguard login' to sign in again.")
		}),
	)

	log.Debug().
		Str("server", cfg.Server).
		Str("store", string(cfg.Store)).
		Str("profile", cfg.Profile).
		Msg("console ready")

	return a, nil
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin != nil {
		return g.Stdin
	}
	return os.Stdin
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func (a *app) close() {
	for _, fn := range a.unwatch {
		fn()
	}
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close session store")
		}
	}
}

// sessionApp opens the app and enters route through the session guard.
func sessionApp(globals *Globals, route nav.Route) (*app, error) {
	a, err := globals.open()
	if err != nil {
		return nil, err
	}
	if _, err := a.requireSession(route); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// requireSession moves the router to route, running the session guard first
// when the route is protected. An empty route means the landing view for the
// stored roles.
func (a *app) requireSession(route nav.Route) (*session.Session, error) {
	if route == "" || route.Protected() {
		if err := a.guard.Require(a.router); err != nil {
			return nil, fmt.Errorf("not logged in\n\nRun 'revenueguard login' to sign in")
		}
	}

	sess, ok := a.guard.Current()
	if route == "" && ok {
		route = session.LandingRoute(sess.Roles)
	}
	a.router.Navigate(route)

	return sess, nil
}

// prompt reads one line. def is returned for an empty answer.
func (a *app) prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.out, "%s: ", label)
	}

	line, err := a.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// valueOrPrompt returns v when set, otherwise asks for it.
func (a *app) valueOrPrompt(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return a.prompt(label, "")
}

func printMessage(out io.Writer, err error) {
	fmt.Fprintln(out, auth.UserMessage(err))
}
