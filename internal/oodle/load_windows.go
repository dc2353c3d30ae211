//go:build windows

package oodle

import "golang.org/x/sys/windows"

func openLibrary(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	return uintptr(handle), err
}

func lookupSymbol(handle uintptr, name string) error {
	_, err := windows.GetProcAddress(windows.Handle(handle), name)
	return err
}
