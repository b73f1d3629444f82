package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// FS reads page files from an io/fs filesystem.
type FS struct {
	fsys fs.FS
	name string
}

// NewFS creates a source over fsys. name is used in logs.
func NewFS(fsys fs.FS, name string) *FS {
	return &FS{fsys: fsys, name: name}
}

// Dir creates a source over a local directory.
func Dir(root string) *FS {
	return NewFS(os.DirFS(root), root)
}

// List walks the filesystem in lexical order.
func (s *FS) List(ctx context.Context) ([]string, error) {
	var keys []string

	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		keys = append(keys, Key(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.name, err)
	}
	return keys, nil
}

// Open opens the file with the given key.
func (s *FS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(relPath(key))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	return f, nil
}

func (s *FS) String() string {
	return "dir:" + s.name
}
