package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

type recordedRequest struct {
	Method  string
	Path    string
	Header  http.Header
	Body    string
	Decoded map[string]any
}

// fakeBackend answers every request with status and body, recording what it
// received.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest

	status int
	body   string
}

func newFakeBackend(t *testing.T, status int, body string) (*fakeBackend, *httptest.Server) {
	t.Helper()

	backend := &fakeBackend{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)

		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(data),
		}
		_ = json.Unmarshal(data, &rec.Decoded)

		backend.mu.Lock()
		backend.requests = append(backend.requests, rec)
		status, body := backend.status, backend.body
		backend.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return backend, srv
}

func (b *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()

	b.mu.Lock()
	defer b.mu.Unlock()

	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func (b *fakeBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.requests)
}

func (b *fakeBackend) respond(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.status, b.body = status, body
}

func newTestClients(srv *httptest.Server, store tokenstore.Store) *Clients {
	return NewClients(Config{
		ServerURL: srv.URL,
		Timeout:   5 * time.Second,
		Store:     store,
	})
}

func TestBearerAttachment(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{}`)
	store := tokenstore.NewMemoryStore()
	clients := newTestClients(srv, store)
	ctx := context.Background()

	t.Run("no header before a token is set", func(t *testing.T) {
		_, err := clients.Customer.Status(ctx)
		require.NoError(t, err)
		assert.Empty(t, backend.last(t).Header.Get("Authorization"))
	})

	require.NoError(t, store.Set(tokenstore.KeyToken, "abc123"))

	authenticated := map[string]*Client{
		"protected": clients.Protected,
		"customer":  clients.Customer.Client,
		"admin":     clients.Admin.Client,
	}
	for name, c := range authenticated {
		t.Run(name+" attaches the token", func(t *testing.T) {
			require.NoError(t, c.Do(ctx, http.MethodGet, "/anything", nil, nil))
			assert.Equal(t, "Bearer abc123", backend.last(t).Header.Get("Authorization"))
		})
	}

	t.Run("public never attaches the token", func(t *testing.T) {
		_, err := clients.Auth.Login(ctx, LoginRequest{Username: "alice@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Empty(t, backend.last(t).Header.Get("Authorization"))
	})

	t.Run("picks up a replaced token", func(t *testing.T) {
		require.NoError(t, store.Set(tokenstore.KeyToken, "def456"))
		backend.respond(http.StatusOK, `[]`)
		defer backend.respond(http.StatusOK, `{}`)

		customers, err := clients.Admin.Customers(ctx)
		require.NoError(t, err)
		assert.Empty(t, customers)
		assert.Equal(t, "Bearer def456", backend.last(t).Header.Get("Authorization"))
	})
}

func TestJSONContentType(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{}`)
	c := newTestClients(srv, tokenstore.NewMemoryStore()).Protected
	ctx := context.Background()

	tests := []struct {
		name     string
		method   string
		body     any
		expected string
	}{
		{name: "post with body", method: http.MethodPost, body: map[string]string{"a": "b"}, expected: "application/json"},
		{name: "put with body", method: http.MethodPut, body: map[string]string{"a": "b"}, expected: "application/json"},
		{name: "patch with body", method: http.MethodPatch, body: map[string]string{"a": "b"}, expected: "application/json"},
		{name: "post without body", method: http.MethodPost, body: nil, expected: ""},
		{name: "get", method: http.MethodGet, body: nil, expected: ""},
		{name: "delete", method: http.MethodDelete, body: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, c.Do(ctx, tt.method, "/x", tt.body, nil))
			assert.Equal(t, tt.expected, backend.last(t).Header.Get("Content-Type"))
		})
	}
}

func TestRequestID(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{}`)
	c := newTestClients(srv, tokenstore.NewMemoryStore()).Public

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/one", nil, nil))
	first := backend.last(t).Header.Get("X-Request-ID")
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/two", nil, nil))
	second := backend.last(t).Header.Get("X-Request-ID")

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	calls := map[string]func(ctx context.Context, c *Clients) error{
		"protected change password": func(ctx context.Context, c *Clients) error {
			_, err := c.Auth.ChangePassword(ctx, ChangePasswordRequest{OldPassword: "a", NewPassword: "bbbbbb"})
			return err
		},
		"customer status": func(ctx context.Context, c *Clients) error {
			_, err := c.Customer.Status(ctx)
			return err
		},
		"customer pay bill": func(ctx context.Context, c *Clients) error {
			_, err := c.Customer.PayBill(ctx)
			return err
		},
		"admin rules": func(ctx context.Context, c *Clients) error {
			_, err := c.Admin.Rules(ctx)
			return err
		},
		"admin delete rule": func(ctx context.Context, c *Clients) error {
			return c.Admin.DeleteRule(ctx, 7)
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			_, srv := newFakeBackend(t, http.StatusUnauthorized, `{"message":"expired"}`)
			store := tokenstore.NewMemoryStore()
			require.NoError(t, store.Set(tokenstore.KeyToken, "abc123"))
			require.NoError(t, store.Set(tokenstore.KeyUsername, "alice"))
			require.NoError(t, store.Set(tokenstore.KeyRoles, "ROLE_ADMIN"))

			clients := newTestClients(srv, store)

			var events []SessionInvalidated
			clients.Events.OnSessionInvalidated(func(ev SessionInvalidated) {
				events = append(events, ev)
			})

			err := call(context.Background(), clients)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrSessionInvalid)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			assert.Equal(t, "expired", apiErr.Message)

			assert.Equal(t, 0, store.Len())
			require.Len(t, events, 1)
			assert.Equal(t, "expired", events[0].Message)
		})
	}
}

func TestUnauthorizedOnPublicKeepsSession(t *testing.T) {
	_, srv := newFakeBackend(t, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.KeyToken, "abc123"))

	clients := newTestClients(srv, store)

	published := false
	clients.Events.OnSessionInvalidated(func(SessionInvalidated) { published = true })

	_, err := clients.Auth.Login(context.Background(), LoginRequest{Username: "a", Password: "b"})
	require.Error(t, err)

	token, ok := store.Get(tokenstore.KeyToken)
	require.True(t, ok)
	assert.Equal(t, "abc123", token)
	assert.False(t, published)
}

func TestOtherFailuresPropagate(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusBadRequest, `{"error":"Plan not available"}`)
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.KeyToken, "abc123"))
	clients := newTestClients(srv, store)

	err := clients.Customer.Subscribe(context.Background(), 3)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionInvalid)
	assert.Equal(t, "Plan not available", MessageOf(err, "fallback"))
	assert.Equal(t, "/api/me/subscribe/3", backend.last(t).Path)

	_, ok := store.Get(tokenstore.KeyToken)
	assert.True(t, ok)

	backend.respond(http.StatusForbidden, `Access Denied`)
	_, err = clients.Admin.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Access Denied", MessageOf(err, "fallback"))

	backend.respond(http.StatusInternalServerError, `<html>oops</html>`)
	_, err = clients.Admin.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	clients := NewClients(Config{ServerURL: url, Timeout: time.Second, Store: tokenstore.NewMemoryStore()})

	_, err := clients.Customer.Status(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, MessageOf(err, "fallback"), "Unable to reach the server")
}

func TestCancelledRequestIsNotUnreachable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	clients := newTestClients(srv, tokenstore.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := clients.Customer.Status(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestDecodeResponses(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{"token":"abc123","username":"alice","roles":["ROLE_ADMIN"]}`)
	clients := newTestClients(srv, tokenstore.NewMemoryStore())
	ctx := context.Background()

	resp, err := clients.Auth.Login(ctx, LoginRequest{Username: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Token)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, []string{"ROLE_ADMIN"}, resp.Roles)

	req := backend.last(t)
	assert.Equal(t, "/api/auth/login", req.Path)
	assert.Equal(t, "alice@example.com", req.Decoded["username"])
	assert.Equal(t, "secret1", req.Decoded["password"])

	backend.respond(http.StatusOK, `Payment successful`)
	confirmation, err := clients.Customer.PayBill(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Payment successful", confirmation)
}

func TestVerifyReplaysProfile(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{"message":"User registered successfully!"}`)
	clients := newTestClients(srv, tokenstore.NewMemoryStore())

	resp, err := clients.Auth.Verify(context.Background(), VerifyRequest{
		Code: "123456",
		SignupRequest: SignupRequest{
			Username: "bob@example.com",
			Email:    "bob@example.com",
			Password: "secret1",
			Phone:    "0123456789",
			Segment:  SegmentPrepaid,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully!", resp.Message)

	req := backend.last(t)
	assert.Equal(t, "/api/auth/verify", req.Path)
	assert.Equal(t, "123456", req.Decoded["code"])
	profile, ok := req.Decoded["signupRequest"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bob@example.com", profile["username"])
	assert.Equal(t, "PREPAID", profile["segment"])
}

func TestAdminTrigger(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{"message":"Dunning cycle complete"}`)
	clients := newTestClients(srv, tokenstore.NewMemoryStore())

	msg, err := clients.Admin.Trigger(context.Background(), TriggerDunning)
	require.NoError(t, err)
	assert.Equal(t, "Dunning cycle complete", msg)
	assert.Equal(t, "/api/admin/trigger/dunning", backend.last(t).Path)

	_, err = clients.Admin.Trigger(context.Background(), "reboot")
	require.ErrorIs(t, err, ErrUnknownTrigger)
}

func TestRuleActions(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{"id":3,"ruleName":"Throttle","actionToTake":"THROTTLE_DATA"}`)
	clients := newTestClients(srv, tokenstore.NewMemoryStore())
	ctx := context.Background()

	for _, action := range DunningActions {
		t.Run(action, func(t *testing.T) {
			_, err := clients.Admin.CreateRule(ctx, DunningRule{RuleName: "r", ActionToTake: action})
			require.NoError(t, err)
			assert.Equal(t, action, backend.last(t).Decoded["actionToTake"])
		})
	}

	t.Run("unknown action is not sent", func(t *testing.T) {
		sent := backend.count()

		_, err := clients.Admin.CreateRule(ctx, DunningRule{RuleName: "r", ActionToTake: "SEND_FAX"})
		require.ErrorIs(t, err, ErrUnknownAction)

		_, err = clients.Admin.UpdateRule(ctx, 3, DunningRule{RuleName: "r"})
		require.ErrorIs(t, err, ErrUnknownAction)

		assert.Equal(t, sent, backend.count())
	})
}

func TestInvoiceDueDate(t *testing.T) {
	backend, srv := newFakeBackend(t, http.StatusOK, `{"id":9,"dueDate":"2026-11-01"}`)
	clients := newTestClients(srv, tokenstore.NewMemoryStore())

	invoice, err := clients.Admin.UpdateInvoiceDueDate(context.Background(), 9, "2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", invoice.DueDate)

	req := backend.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/api/admin/invoices/9/due-date", req.Path)
	assert.Equal(t, "2026-11-01", req.Decoded["dueDate"])
}

func TestEventsUnsubscribe(t *testing.T) {
	events := NewEvents()

	count := 0
	stop := events.OnSessionInvalidated(func(SessionInvalidated) { count++ })

	events.publish(SessionInvalidated{})
	stop()
	events.publish(SessionInvalidated{})

	assert.Equal(t, 1, count)
}

func TestScope(t *testing.T) {
	assert.False(t, ScopePublic.Authenticated())
	assert.True(t, ScopeProtected.Authenticated())
	assert.True(t, ScopeCustomer.Authenticated())
	assert.True(t, ScopeAdmin.Authenticated())

	clients := NewClients(Config{ServerURL: "http://example.com/"})
	assert.Equal(t, "http://example.com/api", clients.Public.BaseURL())
	assert.Equal(t, "http://example.com/api/me", clients.Customer.BaseURL())
	assert.Equal(t, "http://example.com/api/admin", clients.Admin.BaseURL())
}
