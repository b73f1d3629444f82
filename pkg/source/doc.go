// Package source enumerates and opens page files.
//
// A Source lists page file keys relative to its root, written as
// "./dir/sub/index.go", and opens them by key. Two implementations are
// provided: FS over any io/fs filesystem (a local directory through Dir),
// and S3 over a bucket prefix.
package source
