package pkgpackage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Emscripten metadata keys read from model.Project.Emscripten (spec.md §6
// "WebAssembly packaging output"):
//
//	port    local HTTP server port the launcher scripts bind (default "8080")

// BundleEmscripten writes the two auxiliary launcher scripts spec.md §6
// requires alongside an already-linked <target>.wasm/.js/.html triple: one
// POSIX shell script and one for the dominant desktop shell, each starting
// a local HTTP server on the configured port and serving outDir — the
// compiled page cannot load its .wasm over file://.
func BundleEmscripten(projectName, outDir string, meta map[string]string) (Result, error) {
	port := metaOr(meta, "port", "8080")

	shPath := filepath.Join(outDir, "serve.sh")
	sh := fmt.Sprintf("#!/bin/sh\ncd \"$(dirname \"$0\")\"\nexec python3 -m http.server %s\n", port)
	if err := writeExecutable(shPath, sh); err != nil {
		return Result{}, err
	}

	ps1Path := filepath.Join(outDir, "serve.ps1")
	ps1 := fmt.Sprintf("Set-Location -Path $PSScriptRoot\npython -m http.server %s\n", port)
	if err := writeExecutable(ps1Path, ps1); err != nil {
		return Result{}, err
	}

	return Result{OutputPath: filepath.Join(outDir, projectName+".html")}, nil
}

func writeExecutable(path, content string) error {
	if err := mkdirAllFor(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o755)
}
