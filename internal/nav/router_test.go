package nav

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

func TestRoute_Protected(t *testing.T) {
	tests := []struct {
		route Route
		want  bool
	}{
		{RouteLogin, false},
		{RouteSignup, false},
		{"/", false},
		{RouteCustomerDashboard, true},
		{RouteSupportDashboard, true},
		{RouteAdminDashboard, true},
		{"/admin/rules", true},
		{"/about", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.route.Protected(), string(tt.route))
	}
}

func TestRouter_NavigateNotifies(t *testing.T) {
	router := NewRouter(RouteLogin)
	assert.Equal(t, RouteLogin, router.Current())

	var seen []Route
	router.OnNavigate(func(r Route) { seen = append(seen, r) })

	router.Navigate(RouteCustomerDashboard)
	router.Navigate(RouteLogin)

	assert.Equal(t, []Route{RouteCustomerDashboard, RouteLogin}, seen)
	assert.Equal(t, RouteLogin, router.Current())
}

func TestRouter_Watch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.KeyToken, "T1"))

	clients := client.NewClients(client.Config{ServerURL: srv.URL, Timeout: 5 * time.Second, Store: store})
	router := NewRouter(RouteAdminDashboard)
	stop := router.Watch(clients.Events)

	_, err := clients.Admin.Stats(context.Background())
	require.ErrorIs(t, err, client.ErrSessionInvalid)
	assert.Equal(t, RouteLogin, router.Current())

	stop()
	require.NoError(t, store.Set(tokenstore.KeyToken, "T2"))
	router.Navigate(RouteAdminDashboard)

	_, err = clients.Admin.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, RouteAdminDashboard, router.Current(), "no redirect after stop")
}
