package session

import (
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/nav"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

// Role tags issued by the backend.
const (
	RoleAdmin        = "ROLE_ADMIN"
	RoleSupportAgent = "ROLE_SUPPORT_AGENT"
	RoleCustomer     = "ROLE_CUSTOMER"
)

var (
	// ErrNotAuthenticated is returned when a protected region is entered
	// without a stored token.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Session is the authenticated identity of the current actor.
type Session struct {
	Token       string
	DisplayName string
	Roles       []string
}

// HasRole reports whether the session carries role.
func (s *Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

// Save persists the session into the store.
func Save(store tokenstore.Store, s *Session) error {
	if err := store.Set(tokenstore.KeyToken, s.Token); err != nil {
		return err
	}
	if err := store.Set(tokenstore.KeyUsername, s.DisplayName); err != nil {
		return err
	}
	return store.Set(tokenstore.KeyRoles, strings.Join(s.Roles, ","))
}

// Destroy removes the session keys from the store.
func Destroy(store tokenstore.Store) error {
	return store.Clear(tokenstore.SessionKeys...)
}

// Guard decides whether a protected region may be shown. It only checks
// for the presence of a token; the server decides whether it is valid.
type Guard struct {
	store tokenstore.Store
}

// NewGuard creates a guard reading from store.
func NewGuard(store tokenstore.Store) *Guard {
	return &Guard{store: store}
}

// IsAuthenticated reports whether a token is stored.
func (g *Guard) IsAuthenticated() bool {
	token, ok := g.store.Get(tokenstore.KeyToken)
	return ok && token != ""
}

// Require navigates to the login route and returns ErrNotAuthenticated when
// no token is stored. Callers must not render the protected view on error.
func (g *Guard) Require(router nav.Navigator) error {
	if g.IsAuthenticated() {
		return nil
	}

	log.Debug().Msg("no session token, redirecting to login")
	router.Navigate(nav.RouteLogin)

	return ErrNotAuthenticated
}

// Current assembles the stored session.
func (g *Guard) Current() (*Session, bool) {
	if !g.IsAuthenticated() {
		return nil, false
	}

	token, _ := g.store.Get(tokenstore.KeyToken)
	name, _ := g.store.Get(tokenstore.KeyUsername)
	rolesValue, _ := g.store.Get(tokenstore.KeyRoles)

	var roles []string
	if rolesValue != "" {
		roles = strings.Split(rolesValue, ",")
	}

	return &Session{Token: token, DisplayName: name, Roles: roles}, true
}

// LandingRoute picks the entry view for a role set. Roles are checked in a
// fixed order: admin, then support agent, then the customer default.
func LandingRoute(roles []string) nav.Route {
	s := Session{Roles: roles}
	switch {
	case s.HasRole(RoleAdmin):
		return nav.RouteAdminDashboard
	case s.HasRole(RoleSupportAgent):
		return nav.RouteSupportDashboard
	default:
		return nav.RouteCustomerDashboard
	}
}
