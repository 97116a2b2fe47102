package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnreachable wraps transport failures where no response arrived.
	ErrUnreachable = errors.New("unable to reach the server")

	// ErrSessionInvalid matches a 401 error from an authenticated client.
	ErrSessionInvalid = errors.New("session is no longer valid")
)

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrSessionInvalid) match authorization failures.
func (e *Error) Is(target error) bool {
	return target == ErrSessionInvalid && e.Status == http.StatusUnauthorized
}

// errorBody is the optional failure payload, either {message} or {error}.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}

	var payload errorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	// some endpoints answer with a bare string
	text := strings.TrimSpace(string(body))
	if text != "" && !strings.HasPrefix(text, "<") && len(text) <= 512 {
		apiErr.Message = text
	}

	return apiErr
}

// MessageOf turns an error from this package into text for the user: the
// server supplied message if there is one, a generic connectivity message
// for transport failures, and fallback otherwise.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if errors.Is(err, ErrUnreachable) {
		return "Unable to reach the server. Check your connection and try again."
	}

	return fallback
}
