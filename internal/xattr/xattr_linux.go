// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build linux

package xattr

import "golang.org/x/sys/unix"

type platformReader struct{}

// Get is grounded on the teacher's fileid_linux.go build-tag split:
// a direct syscall path guarded to the platforms that have it.
func (platformReader) Get(path, name string) ([]byte, error) {
	size, err := unix.Getxattr(path, name, nil)
	if err != nil {
		return nil, translate(err)
	}
	if size == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, size)
	n, err := unix.Getxattr(path, name, buf)
	if err != nil {
		return nil, translate(err)
	}
	return buf[:n], nil
}

// Default is the Reader this platform provides.
var Default Reader = platformReader{}

func translate(err error) error {
	if err == unix.ENODATA || err == unix.ENOTSUP {
		return ErrNotSupported
	}
	return err
}
