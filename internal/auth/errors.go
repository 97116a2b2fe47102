package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongState is returned when a signup step is attempted out of order.
	ErrWrongState = errors.New("signup step not valid in current state")
)

// ValidationError is raised before any network call when form input fails
// the local checks.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Failure is a rejected request whose Message is meant for the user. The
// underlying error stays reachable through errors.Is and errors.As.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// UserMessage returns the text a view should show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Message
	}

	return err.Error()
}
