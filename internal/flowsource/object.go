package flowsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
)

// ObjectStore is the subset of an object-store client ObjectSource needs.
type ObjectStore interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// ObjectSource reads flows stored under a bucket prefix. Keys are mapped to
// the same layout as a directory: prefix/x.json is global and
// prefix/project/y.json belongs to project.
type ObjectSource struct {
	uri    string
	bucket string
	prefix string
	store  ObjectStore
}

// NewObjectSource returns a source over bucket/prefix in store.
func NewObjectSource(uri, bucket, prefix string, store ObjectStore) *ObjectSource {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ObjectSource{uri: uri, bucket: bucket, prefix: prefix, store: store}
}

func (s *ObjectSource) Root() string {
	return s.uri
}

func (s *ObjectSource) Scan(ctx context.Context) (Tree, error) {
	keys, err := s.store.ListObjects(ctx, s.bucket, s.prefix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Tree{}, fmt.Errorf("%w: %s: %w", ErrRootNotFound, s.uri, err)
		}
		return Tree{}, err
	}
	sort.Strings(keys)

	var tree Tree
	projects := make(map[string]int)
	for _, key := range keys {
		rel := strings.TrimPrefix(key, s.prefix)
		parts := strings.Split(rel, "/")

		switch len(parts) {
		case 1:
			if isFlowDocument(parts[0]) {
				tree.Global = append(tree.Global, FlowFile{Name: parts[0], Path: rel})
			}
		case 2:
			project, name := parts[0], parts[1]
			if project == "" || isHidden(project) {
				continue
			}
			idx, ok := projects[project]
			if !ok {
				idx = len(tree.Projects)
				projects[project] = idx
				tree.Projects = append(tree.Projects, ProjectDir{Name: project})
			}
			// A "project/" directory marker yields an empty name.
			if isFlowDocument(name) {
				tree.Projects[idx].Files = append(tree.Projects[idx].Files, FlowFile{
					Name:    name,
					Project: project,
					Path:    rel,
				})
			}
		}
	}

	sort.SliceStable(tree.Projects, func(i, j int) bool {
		return tree.Projects[i].Name < tree.Projects[j].Name
	})
	return tree, nil
}

func (s *ObjectSource) Open(ctx context.Context, f FlowFile) (io.ReadCloser, error) {
	return s.store.GetObject(ctx, s.bucket, s.prefix+f.Path)
}
