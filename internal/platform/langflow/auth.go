package langflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/imamik/langflow-bootstrap/internal/util/retry"
)

// Login exchanges a username and password for an access token.
// A 200 response without an access_token is reported as ErrMissingField.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"username":   {username},
		"password":   {password},
		"grant_type": {"password"},
	}

	resp, err := c.do(ctx, request{
		method:      "POST",
		path:        "/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return "", err
	}
	if err := resp.Expect("login", StatusOK); err != nil {
		return "", err
	}

	token := gjson.GetBytes(resp.Body, "access_token").String()
	if token == "" {
		return "", missingField("login", "access_token")
	}
	return token, nil
}

// Logger receives progress messages.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Defaults for Authenticator.
const (
	DefaultLoginAttempts = 15
	DefaultLoginDelay    = 2 * time.Second
	DefaultLoginTimeout  = 5 * time.Second
)

// Authenticator obtains access tokens, retrying while the server is unavailable.
type Authenticator struct {
	Client         *Client
	MaxAttempts    int
	Delay          time.Duration
	AttemptTimeout time.Duration
	Logger         Logger

	// OnAttempt is called after every attempt with its outcome (optional).
	OnAttempt func(username string, attempt int, err error)
}

// NewAuthenticator returns an Authenticator with the default retry policy.
func NewAuthenticator(client *Client, logger Logger) *Authenticator {
	return &Authenticator{
		Client:         client,
		MaxAttempts:    DefaultLoginAttempts,
		Delay:          DefaultLoginDelay,
		AttemptTimeout: DefaultLoginTimeout,
		Logger:         logger,
	}
}

// Authenticate logs in as cred and returns it with the token set.
// Transport errors and non-200 statuses are retried; a 200 response without
// a token is not. Exhausting all attempts yields ErrLoginExhausted.
func (a *Authenticator) Authenticate(ctx context.Context, cred Credential) (Credential, error) {
	logger := a.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	maxAttempts := a.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var token string
	err := retry.Do(ctx, func(attempt int) error {
		logger.Printf("Login attempt %d/%d for user '%s'...", attempt, maxAttempts, cred.Username)

		attemptCtx := ctx
		if a.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, a.AttemptTimeout)
			defer cancel()
		}

		t, err := a.Client.Login(attemptCtx, cred.Username, cred.Password)
		if a.OnAttempt != nil {
			a.OnAttempt(cred.Username, attempt, err)
		}
		if err != nil {
			if errors.Is(err, ErrMissingField) {
				return retry.Fatal(err)
			}
			return err
		}
		token = t
		return nil
	},
		retry.WithMaxAttempts(maxAttempts),
		retry.WithDelay(a.Delay),
		retry.WithOnRetry(func(attempt int, err error) {
			logger.Printf("Login for user '%s' failed (%v), retrying in %s", cred.Username, err, a.Delay)
		}),
	)
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return cred, fmt.Errorf("%w for user '%s': %w", ErrLoginExhausted, cred.Username, err)
		}
		return cred, fmt.Errorf("login for user '%s': %w", cred.Username, err)
	}

	logger.Printf("Login successful for user '%s'", cred.Username)
	cred.Token = token
	return cred, nil
}
