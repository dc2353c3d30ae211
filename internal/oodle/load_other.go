//go:build !darwin && !freebsd && !linux && !windows

package oodle

import "errors"

var errUnsupported = errors.New("oodle: dynamic loading not supported on this platform")

func openLibrary(path string) (uintptr, error) {
	return 0, errUnsupported
}

func lookupSymbol(handle uintptr, name string) error {
	return errUnsupported
}
