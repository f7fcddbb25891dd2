// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package xattr reads the platform extended attributes C4's
// auxiliary-fork discovery tries first: com.apple.ResourceFork and
// com.apple.FinderInfo. The build-tag split (one real syscall path per
// platform, a stub elsewhere) is grounded directly in the teacher's
// internal/fileid package (fileid_darwin.go / fileid_linux.go /
// fileid_others.go).
package xattr

import "github.com/cockroachdb/errors"

// ErrNotSupported is returned on platforms (or filesystems) with no
// extended-attribute support; callers fall through to the AppleDouble
// cascade per spec §4.4.
var ErrNotSupported = errors.New("xattr: extended attributes not supported here")

const (
	ResourceForkAttr = "com.apple.ResourceFork"
	FinderInfoAttr   = "com.apple.FinderInfo"
)

// Reader is implemented per-platform (xattr_darwin.go, xattr_linux.go,
// xattr_other.go).
type Reader interface {
	// Get returns the named extended attribute's content, or
	// ErrNotSupported / fs.ErrNotExist.
	Get(path, name string) ([]byte, error)
}
