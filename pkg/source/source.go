package source

import (
	"context"
	"io"
	"path"
	"strings"
)

// Source enumerates page files and opens them by key.
type Source interface {
	// List returns every file key under the source root, sorted.
	List(ctx context.Context) ([]string, error)

	// Open returns the content of the file with the given key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// String describes the source for logs.
	String() string
}

// Key normalizes a slash separated relative path to the "./a/b" form.
func Key(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimLeft(rel, "/")
	return "./" + rel
}

// relPath converts a key back into a clean relative path.
func relPath(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(key, "./")), "/")
}
