package langflow

import "net/http"

// Session authorizes requests on behalf of a principal.
type Session interface {
	// Authorize sets the authentication headers on h.
	Authorize(h http.Header)
	// Kind names the authentication scheme, for logs.
	Kind() string
}

// BearerSession authenticates with an access token obtained from Login.
type BearerSession struct {
	Token string
}

func (s BearerSession) Authorize(h http.Header) {
	h.Set("Authorization", "Bearer "+s.Token)
}

func (s BearerSession) Kind() string { return "bearer" }

// APIKeySession authenticates with a minted API key.
type APIKeySession struct {
	Key string
}

func (s APIKeySession) Authorize(h http.Header) {
	h.Set("x-api-key", s.Key)
}

func (s APIKeySession) Kind() string { return "api-key" }

// Credential is a username/password pair and, once authenticated, its access token.
type Credential struct {
	Username string
	Password string
	Token    string
}

// Authenticated reports whether the credential carries an access token.
func (c Credential) Authenticated() bool {
	return c.Token != ""
}

// Session returns a bearer session for the credential's token.
func (c Credential) Session() Session {
	return BearerSession{Token: c.Token}
}

// String renders the credential without its secrets.
func (c Credential) String() string {
	if c.Authenticated() {
		return c.Username + " (authenticated)"
	}
	return c.Username
}
