package testing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// FlowDocument returns a minimal flow export named name.
func FlowDocument(name string) []byte {
	doc, _ := json.Marshal(map[string]any{
		"name":                          name,
		"description":                   "fixture flow",
		"data":                          map[string]any{
			"nodes": []any{},
			"edges": []any{},
		},
	})
	return doc
}

// FlowTree writes files below a fresh temporary directory and returns it.
// Keys are slash-separated paths relative to the root; a key ending in "/"
// creates an empty directory.
func FlowTree(t testing.TB, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(p, content, 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// ServiceFlowTree is a service flows root holding the default tracked flows,
// one at the root and the rest in project directories.
func ServiceFlowTree(t testing.TB) string {
	t.Helper()
	return FlowTree(t, map[string][]byte{
		"demo_chatbot.json":             FlowDocument("Demo Chatbot"),
		"email/categorize.json":         FlowDocument("Email Categorization"),
		"email/auto_reply.json":         FlowDocument("Email Auto Response Generation"),
		"embedding/ui_embedding.json":   FlowDocument("UI Embedding"),
		"embedding/README.md":           []byte("not a flow"),
		"embedding/nested/ignored.json": FlowDocument("Ignored"),
		".cache/hidden.json":            FlowDocument("Hidden"),
	})
}
