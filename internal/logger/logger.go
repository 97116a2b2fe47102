package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// RequestIDHeader carries the per request correlation id.
const RequestIDHeader = "X-Request-ID"

// Setup builds the process logger. Output goes to stderr so command output
// on stdout stays clean. dev switches to debug level with a console writer
// and stack traces.
func Setup(dev bool) zerolog.Logger {
	if !dev {
		return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Caller().Logger()
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
		return time.Now().Format(time.RFC3339)
	}}

	return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Caller().Stack().Logger()
}

var _ http.RoundTripper = (*Transport)(nil)

// Transport logs every outbound API call. Bodies and credentials are never
// logged.
type Transport struct {
	next   http.RoundTripper
	logger zerolog.Logger
}

func NewTransport(logger zerolog.Logger, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{next: next, logger: logger}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	resp, err := t.next.RoundTrip(req)

	if err != nil {
		t.logger.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", req.Header.Get(RequestIDHeader)).
			Dur("duration", time.Since(started)).
			Msg("api call")

		return resp, err
	}

	event := t.logger.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		event = t.logger.Warn()
	}

	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(RequestIDHeader)).
		Dur("duration", time.Since(started)).
		Msg("api call")

	return resp, nil
}
