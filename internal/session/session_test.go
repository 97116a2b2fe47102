package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/revenueguard/internal/nav"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

func TestGuard_IsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tokenstore.Store)
		want  bool
	}{
		{name: "empty store", setup: func(tokenstore.Store) {}, want: false},
		{name: "token present", setup: func(s tokenstore.Store) { _ = s.Set(tokenstore.KeyToken, "T1") }, want: true},
		{name: "empty token", setup: func(s tokenstore.Store) { _ = s.Set(tokenstore.KeyToken, "") }, want: false},
		{name: "username without token", setup: func(s tokenstore.Store) { _ = s.Set(tokenstore.KeyUsername, "alice") }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tokenstore.NewMemoryStore()
			tt.setup(store)

			assert.Equal(t, tt.want, NewGuard(store).IsAuthenticated())
		})
	}
}

func TestGuard_Require(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	guard := NewGuard(store)
	router := nav.NewRouter(nav.RouteAdminDashboard)

	err := guard.Require(router)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, nav.RouteLogin, router.Current())

	require.NoError(t, store.Set(tokenstore.KeyToken, "T1"))
	router.Navigate(nav.RouteAdminDashboard)

	require.NoError(t, guard.Require(router))
	assert.Equal(t, nav.RouteAdminDashboard, router.Current())
}

func TestSaveCurrentDestroy(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	guard := NewGuard(store)

	_, ok := guard.Current()
	assert.False(t, ok)

	sess := &Session{Token: "T1", DisplayName: "alice", Roles: []string{RoleSupportAgent, RoleCustomer}}
	require.NoError(t, Save(store, sess))
	require.NoError(t, store.Set(tokenstore.ChatKey("admin"), "chat-9"))

	got, ok := guard.Current()
	require.True(t, ok)
	assert.Equal(t, sess, got)
	assert.True(t, got.HasRole(RoleSupportAgent))
	assert.False(t, got.HasRole(RoleAdmin))

	require.NoError(t, Destroy(store))
	assert.False(t, guard.IsAuthenticated())
	assert.Equal(t, 1, store.Len())
}

func TestCurrent_NoRoles(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, Save(store, &Session{Token: "T1", DisplayName: "bob"}))

	got, ok := NewGuard(store).Current()
	require.True(t, ok)
	assert.Empty(t, got.Roles)
}

func TestLandingRoute(t *testing.T) {
	tests := []struct {
		roles []string
		want  nav.Route
	}{
		{roles: []string{RoleAdmin}, want: nav.RouteAdminDashboard},
		{roles: []string{RoleCustomer, RoleAdmin}, want: nav.RouteAdminDashboard},
		{roles: []string{RoleSupportAgent, RoleAdmin}, want: nav.RouteAdminDashboard},
		{roles: []string{RoleCustomer, RoleSupportAgent}, want: nav.RouteSupportDashboard},
		{roles: []string{RoleCustomer}, want: nav.RouteCustomerDashboard},
		{roles: []string{"ROLE_UNKNOWN"}, want: nav.RouteCustomerDashboard},
		{roles: nil, want: nav.RouteCustomerDashboard},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LandingRoute(tt.roles), "roles %v", tt.roles)
	}
}

func TestInspectToken(t *testing.T) {
	issued := time.Now().Add(-time.Hour).Truncate(time.Second)
	expires := issued.Add(24 * time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("not-the-server-key"))
	require.NoError(t, err)

	info, err := InspectToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Subject)
	assert.True(t, issued.Equal(info.IssuedAt))
	assert.True(t, expires.Equal(info.ExpiresAt))

	_, err = InspectToken("opaque-token")
	assert.ErrorIs(t, err, ErrOpaqueToken)
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("T1")
	assert.Len(t, fp, 12)
	assert.Equal(t, fp, Fingerprint("T1"))
	assert.NotEqual(t, fp, Fingerprint("T2"))
	assert.NotContains(t, fp, "T1")
}
