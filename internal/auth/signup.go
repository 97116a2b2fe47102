package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/nav"
)

// DefaultRedirectDelay is how long the registered view is shown before the
// router moves to login.
const DefaultRedirectDelay = 2 * time.Second

// State is a step of the signup flow.
type State int

const (
	StateDetails State = iota
	StateVerify
	StateRegistered
)

func (s State) String() string {
	switch s {
	case StateDetails:
		return "details"
	case StateVerify:
		return "verify"
	case StateRegistered:
		return "registered"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Profile is the data typed into the signup form.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Segment   string
}

func (p Profile) request() client.SignupRequest {
	segment := p.Segment
	if segment == "" {
		segment = client.SegmentPostpaid
	}
	return client.SignupRequest{
		Username:  p.Email,
		Email:     p.Email,
		Password:  p.Password,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Segment:   segment,
	}
}

// PendingSignup is the accepted profile awaiting its one-time code. It
// lives in memory only.
type PendingSignup struct {
	Request client.SignupRequest
	Code    string
}

// Signup is the two-phase registration state machine. Calls are serialized.
type Signup struct {
	mu            sync.Mutex
	api           Service
	router        nav.Navigator
	redirectDelay time.Duration

	state   State
	draft   Profile
	pending *PendingSignup
	notice  string
	timer   *time.Timer
	done    chan struct{}
}

type SignupOption func(*Signup)

// WithRedirectDelay overrides DefaultRedirectDelay.
func WithRedirectDelay(d time.Duration) SignupOption {
	return func(s *Signup) {
		s.redirectDelay = d
	}
}

func NewSignup(api Service, router nav.Navigator, opts ...SignupOption) *Signup {
	s := &Signup{
		api:           api,
		router:        router,
		redirectDelay: DefaultRedirectDelay,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Signup) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the fields last typed into the details form.
func (s *Signup) Draft() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Pending returns a copy of the pending signup, or nil outside the verify
// step.
func (s *Signup) Pending() *PendingSignup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	cp := *s.pending
	return &cp
}

// Notice is the last success message from the backend.
func (s *Signup) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Done is closed once the post-registration redirect has happened.
func (s *Signup) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// SubmitDetails validates the profile and registers it with the backend,
// which sends a one-time code. On success the flow moves to verify.
func (s *Signup) SubmitDetails(ctx context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDetails {
		return fmt.Errorf("%w: submit details in %s", ErrWrongState, s.state)
	}

	s.draft = p

	if err := ValidateProfile(p); err != nil {
		return err
	}

	req := p.request()

	resp, err := s.api.Signup(ctx, req)
	if err != nil {
		return &Failure{Message: client.MessageOf(err, "Signup failed."), Err: err}
	}

	log.Info().Str("email", req.Email).Msg("signup accepted, awaiting code")

	s.pending = &PendingSignup{Request: req}
	s.notice = resp.Message
	s.state = StateVerify

	return nil
}

// SubmitCode replays the pending profile with the code. A rejected code
// leaves the flow in verify so another code can be tried.
func (s *Signup) SubmitCode(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateVerify || s.pending == nil {
		return fmt.Errorf("%w: submit code in %s", ErrWrongState, s.state)
	}

	code = strings.TrimSpace(code)
	if err := validateCode(code); err != nil {
		return err
	}

	s.pending.Code = code

	resp, err := s.api.Verify(ctx, client.VerifyRequest{
		Code:          code,
		SignupRequest: s.pending.Request,
	})
	if err != nil {
		return &Failure{Message: client.MessageOf(err, "OTP verification failed."), Err: err}
	}

	log.Info().Str("email", s.pending.Request.Email).Msg("signup verified")

	// drop every copy of the password
	s.pending.Request.Password = ""
	s.pending = nil
	s.draft = Profile{}

	s.notice = resp.Message
	s.state = StateRegistered
	done := s.done
	s.timer = time.AfterFunc(s.redirectDelay, func() {
		s.router.Navigate(nav.RouteLogin)
		close(done)
	})

	return nil
}

// Back returns from verify to details. The typed profile is kept, the code
// and pending signup are dropped.
func (s *Signup) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateVerify {
		return fmt.Errorf("%w: back in %s", ErrWrongState, s.state)
	}

	s.pending = nil
	s.notice = ""
	s.state = StateDetails

	return nil
}

// Reset abandons the flow. A scheduled redirect is cancelled, in which case
// the previous Done channel never closes.
func (s *Signup) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	if s.state == StateRegistered {
		s.done = make(chan struct{})
	}

	s.timer = nil
	s.pending = nil
	s.draft = Profile{}
	s.notice = ""
	s.state = StateDetails
}
