package langflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slowFlowServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		assert.Equal(t, "langflow-bootstrap", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"f1","name":"Demo Chatbot"}]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_NoOverallTimeout(t *testing.T) {
	t.Parallel()
	srv := slowFlowServer(t, 300*time.Millisecond)

	c := NewClient(srv.URL + "/")
	assert.Zero(t, c.httpClient.Timeout)
	assert.Equal(t, srv.URL, c.BaseURL())

	flows, err := c.ListFlows(context.Background(), APIKeySession{Key: "k"})
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Equal(t, "f1", flows[0].ID)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()
	srv := slowFlowServer(t, 2*time.Second)

	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	start := time.Now()
	_, err := c.ListFlows(context.Background(), APIKeySession{Key: "k"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_ContextEndsRequest(t *testing.T) {
	t.Parallel()
	srv := slowFlowServer(t, 2*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL).ListFlows(ctx, BearerSession{Token: "t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
