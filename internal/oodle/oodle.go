// Package oodle locates and wraps the Oodle native decompression
// library. The library ships with the game, not with this tool, so it
// is probed from the archive's surroundings at runtime; absence is a
// degraded mode, not a failure.
package oodle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ErrNotFound is returned when no candidate library exists in any
// search directory.
var ErrNotFound = errors.New("oodle: library not found")

const symbolName = "OodleLZ_Decompress"

// decompressFn mirrors the OodleLZ_Decompress C signature. A result of
// zero or less means the stream did not decode.
type decompressFn func(src unsafe.Pointer, srcLen int64, dst unsafe.Pointer, dstLen int64,
	fuzzSafe int32, checkCRC int32, verbosity int32,
	dstBase unsafe.Pointer, dstBaseSize int64,
	callback unsafe.Pointer, callbackCtx unsafe.Pointer,
	scratch unsafe.Pointer, scratchSize int64, threadPhase int32) int32

// Decompressor wraps a loaded Oodle library. It satisfies
// resources.Decompressor.
type Decompressor struct {
	path string
	fn   decompressFn
}

// libraryCandidates returns the shared-library names to probe, newest
// Oodle generation first.
func libraryCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			"oo2core_9_win64.dll",
			"oo2core_8_win64.dll",
			"oo2core_7_win64.dll",
			"oo2core_6_win64.dll",
			"oo2core_5_win64.dll",
		}
	case "darwin":
		return []string{
			"liboo2coremac64.2.9.dylib",
			"liboo2coremac64.2.8.dylib",
			"liboo2coremac64.dylib",
		}
	default:
		return []string{
			"liboo2corelinux64.so.9",
			"liboo2corelinux64.so.8",
			"liboo2corelinux64.so.7",
			"liboo2corelinux64.so",
		}
	}
}

// searchDirs returns the probe order: current directory, the archive's
// directory, then up to three of its ancestors.
func searchDirs(archivePath string) []string {
	dirs := []string{"."}
	if archivePath == "" {
		return dirs
	}

	abs, err := filepath.Abs(archivePath)
	if err != nil {
		return dirs
	}
	dir := filepath.Dir(abs)
	dirs = append(dirs, dir)
	for i := 0; i < 3; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dirs = append(dirs, parent)
		dir = parent
	}
	return dirs
}

// Load probes for an Oodle library near archivePath and binds
// OodleLZ_Decompress. ErrNotFound when no candidate exists or none
// loads.
func Load(archivePath string) (*Decompressor, error) {
	for _, dir := range searchDirs(archivePath) {
		for _, name := range libraryCandidates(runtime.GOOS) {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			handle, err := openLibrary(path)
			if err != nil {
				continue
			}
			if err := lookupSymbol(handle, symbolName); err != nil {
				continue
			}
			d := &Decompressor{path: path}
			purego.RegisterLibFunc(&d.fn, handle, symbolName)
			return d, nil
		}
	}
	return nil, ErrNotFound
}

// Path returns the library file that was loaded.
func (d *Decompressor) Path() string {
	return d.path
}

// Decompress inflates src into a buffer of uncompressedSize bytes.
func (d *Decompressor) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	if uncompressedSize <= 0 {
		return nil, fmt.Errorf("oodle: invalid uncompressed size %d", uncompressedSize)
	}
	if len(src) == 0 {
		return nil, errors.New("oodle: empty compressed input")
	}

	dst := make([]byte, uncompressedSize)
	ret := d.fn(unsafe.Pointer(&src[0]), int64(len(src)), unsafe.Pointer(&dst[0]), int64(uncompressedSize),
		0, 0, 0,
		nil, 0,
		nil, nil,
		nil, 0, 3)
	runtime.KeepAlive(src)
	if ret <= 0 {
		return nil, fmt.Errorf("oodle: decompression failed with code %d", ret)
	}
	return dst, nil
}
