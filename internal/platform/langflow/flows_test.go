package langflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/langflow-bootstrap/internal/testing"
)

func TestUploadFlow(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)
	projectID := fake.AddProject("admin", "demo")

	resp, err := c.UploadFlow(context.Background(), sess, "chat.json", strings.NewReader(`{"name":"Demo Chatbot"}`), projectID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	uploads := fake.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "chat.json", uploads[0].Filename)
	assert.Equal(t, "application/json", uploads[0].ContentType)
	assert.Equal(t, projectID, uploads[0].FolderID)
	assert.JSONEq(t, `{"name":"Demo Chatbot"}`, string(uploads[0].Content))

	flows := fake.Flows("admin")
	require.Len(t, flows, 1)
	assert.Equal(t, "Demo Chatbot", flows[0].Name)
}

func TestUploadFlow_WithAPIKey(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)
	key, err := c.CreateAPIKey(context.Background(), sess, "public_flows_key")
	require.NoError(t, err)

	_, err = c.UploadFlow(context.Background(), APIKeySession{Key: key}, "a.json", strings.NewReader(`{}`), "")
	require.NoError(t, err)

	uploads := fake.Uploads()
	require.Len(t, uploads, 1)
	assert.Empty(t, uploads[0].FolderID)
}

func TestUploadFlow_Rejected(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)
	fake.SetStatus(testutil.RouteUploadFlow, http.StatusUnprocessableEntity)

	resp, err := c.UploadFlow(context.Background(), sess, "bad.json", strings.NewReader(`{}`), "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity))
}

func TestUploadFlow_Unauthorized(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c := NewClient(fake.URL())

	_, err := c.UploadFlow(context.Background(), APIKeySession{Key: "bogus"}, "a.json", strings.NewReader(`{}`), "")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestListFlows(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)
	fake.AddFlow("admin", "Demo Chatbot")
	fake.AddFlow("admin", "UI Embedding")
	fake.AddUser("other", "pw", false, true)
	fake.AddFlow("other", "Hidden")

	flows, err := c.ListFlows(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, "Demo Chatbot", flows[0].Name)
	assert.NotEmpty(t, flows[0].ID)
}

func TestListFlows_NonArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"paginated"}`))
	}))
	defer srv.Close()

	flows, err := NewClient(srv.URL).ListFlows(context.Background(), BearerSession{Token: "t"})
	require.NoError(t, err)
	assert.Empty(t, flows)
}

func TestCreateFlow(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)

	flow, err := c.CreateFlow(context.Background(), sess, map[string]any{
		"name": "BENCHMARK_FINAL_1",
		"data": map[string]any{"nodes": []any{}, "edges": []any{}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, flow.ID)
	assert.Equal(t, "BENCHMARK_FINAL_1", flow.Name)
	assert.Equal(t, 1, fake.Calls(testutil.RouteCreateFlow))
}

func TestCreateFlow_Invalid(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)

	_, err := c.CreateFlow(context.Background(), sess, map[string]any{"name": "x"})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity))
}

func TestCreateAPIKey(t *testing.T) {
	fake := testutil.NewFakeLangflow(t)
	c, sess := adminSession(t, fake)

	key, err := c.CreateAPIKey(context.Background(), sess, "secret_flows_key")
	require.NoError(t, err)
	assert.Equal(t, "admin", fake.APIKeyOwner(key))
}

func TestCreateAPIKey_MissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"k"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CreateAPIKey(context.Background(), BearerSession{Token: "t"}, "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)
}
