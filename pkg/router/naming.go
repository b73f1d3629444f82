package router

import (
	"strings"

	"github.com/vango-dev/pageroute/internal/errors"
)

// Convention describes how page files are laid out.
type Convention struct {
	// Extension is the page file extension, including the dot.
	Extension string

	// Index is the base name of route files (without extension).
	Index string

	// Children is the directory name holding nested pages.
	Children string

	// Exclude drops every key containing this marker. Empty disables it.
	Exclude string
}

// DefaultConvention returns the convention used when none is configured.
func DefaultConvention() Convention {
	return Convention{
		Extension: ".go",
		Index:     "index",
		Children:  "children",
		Exclude:   "views",
	}
}

// IsPageFile reports whether key is a page candidate: it carries the page
// extension, is not a Go test file and does not contain the exclude marker.
func (c Convention) IsPageFile(key string) bool {
	if !strings.HasSuffix(key, c.Extension) {
		return false
	}
	if c.Extension == ".go" && strings.HasSuffix(key, "_test.go") {
		return false
	}
	if c.Exclude != "" && strings.Contains(key, c.Exclude) {
		return false
	}
	return true
}

// IsIndexFile reports whether key ends with the index file name.
func (c Convention) IsIndexFile(key string) bool {
	return strings.HasSuffix(key, c.Index+c.Extension)
}

// IsChildFile reports whether key lies inside a children directory.
func (c Convention) IsChildFile(key string) bool {
	return strings.Contains(key, "/"+c.Children+"/")
}

// stem returns the text between the first '/' that is followed by a
// non-empty name and the trailing extension: "./user/index.go" → "user/index".
func (c Convention) stem(key string) (string, error) {
	if strings.HasSuffix(key, c.Extension) {
		for i := 0; i < len(key); i++ {
			if key[i] != '/' {
				continue
			}
			rest := key[i+1:]
			if len(rest) > len(c.Extension) {
				return rest[:len(rest)-len(c.Extension)], nil
			}
		}
	}
	return "", errors.New("E201").
		WithFile(key).
		WithSuggestion("Page files must look like ./<dir>/" + c.Index + c.Extension)
}

// group returns the first directory of key, used to group sibling pages.
func (c Convention) group(key string) (string, error) {
	stem, err := c.stem(key)
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(stem, "/")
	return first, nil
}

// RouteName derives a route name from a page file key.
//
// Underscores are removed, separators become dashes, then the first
// "-index" and the first "-children" are dropped:
//
//	./user/index.go                 → user
//	./user/children/detail/index.go → user-detail
//	./frame_work/index.go           → framework
func (c Convention) RouteName(key string) (string, error) {
	stem, err := c.stem(key)
	if err != nil {
		return "", err
	}
	name := strings.ReplaceAll(stem, "_", "")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.Replace(name, "-"+c.Index, "", 1)
	name = strings.Replace(name, "-"+c.Children, "", 1)
	return name, nil
}

// RoutePath derives a URL path from a page file key. The first
// "/index<ext>" is removed, then every '.'; an empty result is "/".
//
//	./user/index.go → /user
//	./index.go      → /
func (c Convention) RoutePath(key string) string {
	path := strings.Replace(key, "/"+c.Index+c.Extension, "", 1)
	path = strings.ReplaceAll(path, ".", "")
	if path == "" {
		return "/"
	}
	return path
}

// RouteName derives a route name using the default convention.
func RouteName(key string) (string, error) {
	return DefaultConvention().RouteName(key)
}

// RoutePath derives a route path using the default convention.
func RoutePath(key string) string {
	return DefaultConvention().RoutePath(key)
}
