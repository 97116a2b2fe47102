package client

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/wolfeidau/revenueguard/internal/logger"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
	"golang.org/x/oauth2"
)

// RequestInterceptor adjusts an outbound request before it is sent. It
// receives a clone, so it may set headers freely, but it must not touch
// the body.
type RequestInterceptor func(req *http.Request)

var _ http.RoundTripper = (*interceptTransport)(nil)

type interceptTransport struct {
	next         http.RoundTripper
	interceptors []RequestInterceptor
}

func newInterceptTransport(next http.RoundTripper, interceptors ...RequestInterceptor) *interceptTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &interceptTransport{next: next, interceptors: interceptors}
}

func (t *interceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	for _, intercept := range t.interceptors {
		intercept(req)
	}
	return t.next.RoundTrip(req)
}

// BearerToken attaches the stored session token, if any, as a bearer
// credential. No header is added while the store holds no token.
func BearerToken(store tokenstore.Store) RequestInterceptor {
	return func(req *http.Request) {
		token, ok := store.Get(tokenstore.KeyToken)
		if !ok || token == "" {
			return
		}
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
}

// JSONContentType defaults the content type of POST, PUT and PATCH requests
// that carry a body.
func JSONContentType() RequestInterceptor {
	return func(req *http.Request) {
		if req.Header.Get("Content-Type") != "" {
			return
		}
		if req.Body == nil || req.Body == http.NoBody {
			return
		}
		switch req.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			req.Header.Set("Content-Type", "application/json")
		}
	}
}

// RequestID tags requests with a correlation id unless one is present.
func RequestID() RequestInterceptor {
	return func(req *http.Request) {
		if req.Header.Get(logger.RequestIDHeader) == "" {
			req.Header.Set(logger.RequestIDHeader, uuid.New().String())
		}
	}
}
