// Package routepath normalizes navigation targets before route matching.
package routepath

import (
	"errors"
	"strings"
)

// Target errors.
var (
	ErrAbsoluteURL     = errors.New("target is an absolute URL")
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
	ErrPathEscapesRoot = errors.New("path escapes root via ..")
)

// CheckTarget rejects targets that name another origin. Navigation
// targets are paths, optionally followed by a query and hash.
func CheckTarget(target string) error {
	lower := strings.ToLower(target)
	if strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(target, "//") {
		return ErrAbsoluteURL
	}
	return nil
}

// Clean returns the canonical form of a decoded URL path:
//
//	user         → /user
//	/user/       → /user
//	/user//list  → /user/list
//	/a/./b/../c  → /a/c
//	(empty)      → /
//
// Backslashes, NUL bytes and ".." segments climbing above the root are
// rejected.
func Clean(path string) (string, error) {
	if strings.Contains(path, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") {
		return "", ErrNullByteInPath
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return "", ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}
	return "/" + strings.Join(segments, "/"), nil
}
