package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/logger"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Scope selects how a client treats credentials.
type Scope string

const (
	// ScopePublic is used for login, signup and verify. It never attaches
	// a credential and never reacts to 401.
	ScopePublic    Scope = "public"
	ScopeProtected Scope = "protected"
	ScopeCustomer  Scope = "customer"
	ScopeAdmin     Scope = "admin"
)

// Authenticated reports whether the scope attaches the session token and
// treats 401 as the end of the session.
func (s Scope) Authenticated() bool {
	return s != ScopePublic
}

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration
	Debug     bool

	Store  tokenstore.Store
	Events *Events

	// Transport is the base round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
	Logger    *zerolog.Logger
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		Timeout:   30 * time.Second,
		Debug:     false,
	}
}

// Client sends JSON requests to one base path of the API.
type Client struct {
	scope   Scope
	baseURL string
	http    *http.Client
	store   tokenstore.Store
	events  *Events
}

// NewClient creates a client for basePath under the configured server.
func NewClient(config Config, scope Scope, basePath string) *Client {
	base := config.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	l := log.Logger
	if config.Logger != nil {
		l = *config.Logger
	}
	l = l.With().Str("scope", string(scope)).Logger()

	interceptors := []RequestInterceptor{RequestID(), JSONContentType()}
	if scope.Authenticated() && config.Store != nil {
		interceptors = append(interceptors, BearerToken(config.Store))
	}

	events := config.Events
	if events == nil {
		events = NewEvents()
	}

	return &Client{
		scope:   scope,
		baseURL: strings.TrimSuffix(config.ServerURL, "/") + basePath,
		http: &http.Client{
			Timeout:   config.Timeout,
			Transport: newInterceptTransport(logger.NewTransport(l, base), interceptors...),
		},
		store:  config.Store,
		events: events,
	}
}

// Scope returns the client's credential scope.
func (c *Client) Scope() Scope {
	return c.scope
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request with in encoded as the JSON body, when not nil, and
// decodes a successful response into out, when not nil. A *string out
// receives the raw body.
//
// Non-2xx responses return *Error. A 401 from an authenticated client also
// removes the session from the token store and publishes
// SessionInvalidated before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && c.scope.Authenticated() {
			c.invalidateSession(method, path, apiErr.Message)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if raw, ok := out.(*string); ok {
		*raw = string(data)
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) invalidateSession(method, path, message string) {
	if c.store != nil {
		if err := c.store.Clear(tokenstore.SessionKeys...); err != nil {
			log.Error().Err(err).Msg("failed to clear session after 401")
		}
	}

	log.Warn().
		Str("scope", string(c.scope)).
		Str("path", path).
		Msg("credential rejected, session cleared")

	c.events.publish(SessionInvalidated{
		Scope:   c.scope,
		Method:  method,
		Path:    path,
		Message: message,
	})
}

// Clients holds one client per API scope.
type Clients struct {
	Public    *Client
	Protected *Client
	Auth      *AuthAPI
	Customer  *CustomerAPI
	Admin     *AdminAPI

	Events *Events
}

// NewClients creates the public, protected, customer and admin clients
// sharing one token store and one event hub.
func NewClients(config Config) *Clients {
	if config.Events == nil {
		config.Events = NewEvents()
	}

	public := NewClient(config, ScopePublic, "/api")
	protected := NewClient(config, ScopeProtected, "/api")

	return &Clients{
		Public:    public,
		Protected: protected,
		Auth:      &AuthAPI{public: public, protected: protected},
		Customer:  &CustomerAPI{Client: NewClient(config, ScopeCustomer, "/api/me")},
		Admin:     &AdminAPI{Client: NewClient(config, ScopeAdmin, "/api/admin")},
		Events:    config.Events,
	}
}
