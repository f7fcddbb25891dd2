// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build darwin

package xattr

import "golang.org/x/sys/unix"

type platformReader struct{}

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

var Default Reader = platformReader{}

func translate(err error) error {
	if err == unix.ENOATTR || err == unix.ENOTSUP {
		return ErrNotSupported
	}
	return err
}
