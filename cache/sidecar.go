// Package cache implements the three-tier incremental-build cache
// (spec.md §4.4): a modification-time watermark, a header-dependency set
// parsed from the compiler's depfile, and a SHA-256 identity signature
// over everything that affects the compiled output but isn't reflected
// in any file's mtime. Sidecar atomic-write pattern grounded in the
// teacher's android/config.go saveToConfigFile (temp file in the target
// directory + os.Rename).
package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

const sigSidecarSuffix = ".jsig"

// SigSidecarPath returns the identity-signature sidecar path for an
// object file, alongside it with a distinct extension; `clean` removes it
// together with the rest of the object directory.
func SigSidecarPath(objPath string) string {
	return objPath + sigSidecarSuffix
}

// writeFileAtomic writes data to path via a temp file in the same
// directory followed by rename, so a worker crash or concurrent reader
// never observes a partially-written sidecar (spec.md §5 "temporary-file
// + rename is the only write pattern allowed for cache artifacts").
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jenga-cache-*")
	if err != nil {
		return fmt.Errorf("cache: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cache: rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// WriteSignatureSidecar atomically persists digest next to objPath.
func WriteSignatureSidecar(objPath, digest string) error {
	return writeFileAtomic(SigSidecarPath(objPath), []byte(digest))
}

// ReadSignatureSidecar returns the previously stored digest, or ("",
// false) if no sidecar exists yet (a fresh object, or one from a clean
// checkout).
func ReadSignatureSidecar(objPath string) (string, bool) {
	data, err := os.ReadFile(SigSidecarPath(objPath))
	if err != nil {
		return "", false
	}
	return string(data), true
}
