// Package pkgpackage implements the platform-packaging post-link steps of
// spec.md §4.5 step 6 and §6's "Android packaging output" / "WebAssembly
// packaging output" sections: Android APK assembly, Emscripten HTML/JS/WASM
// bundling with launcher scripts, and macOS app-bundle layout. Each
// packager reads its project's opaque model.PlatformMeta bag for the keys
// documented on its own file and is invoked by the scheduler only when the
// project declares the matching kind/platform metadata.
//
// Grounded in the teacher's android_sdk/sdk_repo_host.go path-layout
// conventions and apex/ filesystem-image assembly style (directory
// staging, then a single archive-writing pass), generalized from an
// Android-system-image packager to a single native-app APK packager.
package pkgpackage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RihenUniverse/Jenga-sub001/model"
)

// Result is what a packager reports back to the scheduler for logging.
type Result struct {
	OutputPath string
	Warnings   []string
}

func mkdirAllFor(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func metaOr(meta model.PlatformMeta, key, fallback string) string {
	if meta == nil {
		return fallback
	}
	if v, ok := meta[key]; ok && v != "" {
		return v
	}
	return fallback
}

func metaRequired(meta model.PlatformMeta, key string) (string, error) {
	if meta != nil {
		if v, ok := meta[key]; ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("pkgpackage: missing required android metadata key %q", key)
}
