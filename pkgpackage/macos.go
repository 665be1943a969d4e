package pkgpackage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// macOS metadata keys read from model.Project.IOS (reused for the macOS
// app-bundle case; spec.md names no separate "macOS" metadata bag, so the
// existing platform-metadata attribute nearest macOS/iOS is used):
//
//	bundle_id      CFBundleIdentifier (default "com.jenga." + project name)
//	bundle_name    CFBundleName (default project name)
//	icon           path to a .icns file copied to Contents/Resources

// AssembleAppBundle lays out a <name>.app bundle at outDir: the linked
// executable under Contents/MacOS, a generated Info.plist, and an optional
// icon under Contents/Resources — the minimal structure `open` and
// Launch Services require to treat the binary as an application.
func AssembleAppBundle(projectName, executablePath, outDir string, meta map[string]string) (Result, error) {
	bundleDir := filepath.Join(outDir, projectName+".app")
	macOSDir := filepath.Join(bundleDir, "Contents", "MacOS")
	resourcesDir := filepath.Join(bundleDir, "Contents", "Resources")

	if err := os.MkdirAll(macOSDir, 0o755); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(resourcesDir, 0o755); err != nil {
		return Result{}, err
	}

	dest := filepath.Join(macOSDir, projectName)
	if err := copyExecutable(executablePath, dest); err != nil {
		return Result{}, err
	}

	bundleID := metaOr(meta, "bundle_id", "com.jenga."+projectName)
	bundleName := metaOr(meta, "bundle_name", projectName)
	plist := renderInfoPlist(bundleID, bundleName, projectName)
	if err := os.WriteFile(filepath.Join(bundleDir, "Contents", "Info.plist"), []byte(plist), 0o644); err != nil {
		return Result{}, err
	}

	if icon := meta["icon"]; icon != "" {
		if err := copyFile(icon, filepath.Join(resourcesDir, filepath.Base(icon))); err != nil {
			return Result{}, fmt.Errorf("pkgpackage: copying icon: %w", err)
		}
	}

	return Result{OutputPath: bundleDir}, nil
}

func copyExecutable(src, dst string) error {
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Chmod(dst, 0o755)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".copy-*")
	if err != nil {
		return err
	}
	tmpName := out.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}

func renderInfoPlist(bundleID, bundleName, executable string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleIdentifier</key>
	<string>%s</string>
	<key>CFBundleName</key>
	<string>%s</string>
	<key>CFBundleExecutable</key>
	<string>%s</string>
	<key>CFBundlePackageType</key>
	<string>APPL</string>
</dict>
</plist>
`, bundleID, bundleName, executable)
}
