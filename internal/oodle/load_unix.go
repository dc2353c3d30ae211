//go:build darwin || freebsd || linux

package oodle

import "github.com/ebitengine/purego"

func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookupSymbol(handle uintptr, name string) error {
	_, err := purego.Dlsym(handle, name)
	return err
}
