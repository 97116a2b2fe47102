package nav

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/client"
)

// Route identifies a console view.
type Route string

const (
	RouteLogin             Route = "/login"
	RouteSignup            Route = "/signup"
	RouteCustomerDashboard Route = "/dashboard"
	RouteSupportDashboard  Route = "/support/dashboard"
	RouteAdminDashboard    Route = "/admin/dashboard"
)

// Protected reports whether the route requires a session.
func (r Route) Protected() bool {
	switch r {
	case RouteLogin, RouteSignup, "/", "":
		return false
	}
	return strings.HasPrefix(string(r), "/dashboard") ||
		strings.HasPrefix(string(r), "/support") ||
		strings.HasPrefix(string(r), "/admin")
}

// Navigator changes the active view.
type Navigator interface {
	Navigate(route Route)
}

// Router tracks the active view and notifies listeners on change.
type Router struct {
	mu        sync.RWMutex
	current   Route
	listeners []func(Route)
}

var _ Navigator = (*Router)(nil)

// NewRouter creates a router positioned at start.
func NewRouter(start Route) *Router {
	return &Router{current: start}
}

// Navigate makes route the active view.
func (r *Router) Navigate(route Route) {
	r.mu.Lock()
	r.current = route
	listeners := append([]func(Route){}, r.listeners...)
	r.mu.Unlock()

	log.Debug().Str("route", string(route)).Msg("navigate")

	for _, fn := range listeners {
		fn(route)
	}
}

// Current returns the active view.
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current
}

// OnNavigate registers a listener called after every navigation.
func (r *Router) OnNavigate(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = append(r.listeners, fn)
}

// Watch sends the router to the login view whenever the API reports that
// the session was invalidated. The returned func stops watching.
func (r *Router) Watch(events *client.Events) func() {
	return events.OnSessionInvalidated(func(ev client.SessionInvalidated) {
		log.Info().
			Str("scope", string(ev.Scope)).
			Str("path", ev.Path).
			Msg("session invalidated, returning to login")
		r.Navigate(RouteLogin)
	})
}
