package testing

import (
	"context"
	"testing"
	"time"

	"github.com/imamik/langflow-bootstrap/internal/envfile"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ReadEnvFile returns the entries of the env file at path as a map.
func ReadEnvFile(t *testing.T, path string) map[string]string {
	t.Helper()
	entries, err := envfile.Read(path)
	if err != nil {
		t.Fatalf("read env file %s: %v", path, err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out
}
