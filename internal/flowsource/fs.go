package flowsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
)

// FSSource reads flows from an fs.FS rooted at the flow root.
type FSSource struct {
	root string
	fsys fs.FS
}

// NewDir returns a source over the local directory dir.
func NewDir(dir string) *FSSource {
	return NewFS(dir, os.DirFS(dir))
}

// NewFS returns a source over fsys, described as root.
func NewFS(root string, fsys fs.FS) *FSSource {
	return &FSSource{root: root, fsys: fsys}
}

func (s *FSSource) Root() string {
	return s.root
}

// Scan lists root-level documents and one level of project directories.
// Project directories are reported even when they hold no documents.
func (s *FSSource) Scan(ctx context.Context) (Tree, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Tree{}, fmt.Errorf("%w: %s", ErrRootNotFound, s.root)
		}
		return Tree{}, fmt.Errorf("failed to read flow root %s: %w", s.root, err)
	}

	var tree Tree
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return Tree{}, err
		}

		if isHidden(e.Name()) {
			continue
		}
		mode, ok, err := s.resolve(e.Name(), e)
		if err != nil {
			return Tree{}, err
		}
		switch {
		case !ok:
			continue
		case mode.IsDir():
			files, err := s.scanProject(e.Name())
			if err != nil {
				return Tree{}, err
			}
			tree.Projects = append(tree.Projects, ProjectDir{Name: e.Name(), Files: files})
		case mode.IsRegular() && isFlowDocument(e.Name()):
			tree.Global = append(tree.Global, FlowFile{Name: e.Name(), Path: e.Name()})
		}
	}
	return tree, nil
}

// resolve returns the mode of the entry at name, following symlinks such as
// the ones a mounted ConfigMap volume is made of. Dangling links report
// ok == false.
func (s *FSSource) resolve(name string, e fs.DirEntry) (fs.FileMode, bool, error) {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type(), true, nil
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return info.Mode(), true, nil
}

func (s *FSSource) scanProject(project string) ([]FlowFile, error) {
	entries, err := fs.ReadDir(s.fsys, project)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory %s: %w", project, err)
	}

	var files []FlowFile
	for _, e := range entries {
		if !isFlowDocument(e.Name()) {
			continue
		}
		name := path.Join(project, e.Name())
		mode, ok, err := s.resolve(name, e)
		if err != nil {
			return nil, err
		}
		if !ok || !mode.IsRegular() {
			continue
		}
		files = append(files, FlowFile{
			Name:    e.Name(),
			Project: project,
			Path:    name,
		})
	}
	return files, nil
}

func (s *FSSource) Open(_ context.Context, f FlowFile) (io.ReadCloser, error) {
	file, err := s.fsys.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flow %s: %w", f.Path, err)
	}
	return file, nil
}
