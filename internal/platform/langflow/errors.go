package langflow

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrMissingField is returned when a successful response lacks a required field.
	ErrMissingField = errors.New("response missing required field")

	// ErrLoginExhausted is returned when every login attempt failed.
	ErrLoginExhausted = errors.New("could not obtain access token")
)

// APIError is returned when the server answers with an unexpected status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, body)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// StatusPredicate decides whether a response status counts as success.
type StatusPredicate func(code int) bool

// ExpectStatus accepts exactly the listed status codes.
func ExpectStatus(codes ...int) StatusPredicate {
	return func(code int) bool {
		return slices.Contains(codes, code)
	}
}

// Default success statuses per endpoint. Langflow versions disagree on 200
// versus 201 for several create endpoints, so those accept both.
var (
	StatusOK            = ExpectStatus(200)
	StatusCreated       = ExpectStatus(201)
	StatusOKOrCreated   = ExpectStatus(200, 201)
	UserCreateStatus    = StatusCreated
	ProjectCreateStatus = StatusOKOrCreated
	FlowCreateStatus    = StatusOKOrCreated
	UploadStatus        = StatusOKOrCreated
	APIKeyCreateStatus  = StatusOKOrCreated
)

func missingField(op, field string) error {
	return fmt.Errorf("%s: %w %q", op, ErrMissingField, field)
}
