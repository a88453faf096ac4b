package flowsource

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/imamik/langflow-bootstrap/internal/platform/s3"
)

// ErrRootNotFound is returned by Scan when the flow root does not exist.
var ErrRootNotFound = errors.New("flow root not found")

// FlowFile is a single flow document within a root.
type FlowFile struct {
	// Name is the base file name, used as the upload filename.
	Name string
	// Project is the enclosing directory name, empty for global flows.
	Project string
	// Path is the slash-separated path relative to the root.
	Path string
}

// ProjectDir is a sub-directory of the root and the flows it contains.
type ProjectDir struct {
	Name  string
	Files []FlowFile
}

// Tree is the result of scanning a root.
type Tree struct {
	Global   []FlowFile
	Projects []ProjectDir
}

// Count returns the number of flow documents in the tree.
func (t Tree) Count() int {
	n := len(t.Global)
	for _, p := range t.Projects {
		n += len(p.Files)
	}
	return n
}

// Source enumerates and opens flow documents.
type Source interface {
	// Root describes where the flows come from.
	Root() string
	// Scan lists the documents, global files first, each group sorted by name.
	Scan(ctx context.Context) (Tree, error)
	// Open returns the content of f. The caller closes it.
	Open(ctx context.Context, f FlowFile) (io.ReadCloser, error)
}

// New returns a Source for root: an ObjectSource for s3:// URIs and a
// directory source otherwise.
func New(ctx context.Context, root string, opts s3.Options) (Source, error) {
	if !s3.IsURI(root) {
		return NewDir(root), nil
	}

	bucket, prefix, err := s3.ParseURI(root)
	if err != nil {
		return nil, err
	}
	client, err := s3.NewClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewObjectSource(root, bucket, prefix, client), nil
}

func isFlowDocument(name string) bool {
	return !isHidden(name) && strings.EqualFold(path.Ext(name), ".json")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
