package scheduler

import (
	"os"
	"path/filepath"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
	"github.com/RihenUniverse/Jenga-sub001/model"
)

// CleanOptions configures Clean (spec.md §6 "clean [--all]").
type CleanOptions struct {
	// All additionally removes the cache directory, not just the
	// per-configuration object/target directories.
	All bool
	// CacheDir is the implementation-defined cache directory Clean
	// removes when All is set; empty skips that step.
	CacheDir string
}

// Clean removes every project's per-configuration object and target
// directory across the workspace's declared configurations and target
// platforms (spec.md §6 "clean [--all] — removes per-configuration
// object/target directories; --all additionally removes the cache
// directory"). It does not require the workspace to be resolvable for
// any particular platform — object/target-dir templates only reference
// %{cfg.*}/%{prj.*} tokens, so expansion needs no toolchain.
func Clean(ws *model.Workspace, opts CleanOptions) error {
	configs := ws.Configurations
	if len(configs) == 0 {
		configs = []string{""}
	}
	oses := ws.TargetOS
	if len(oses) == 0 {
		oses = []string{""}
	}
	arches := ws.TargetArch
	if len(arches) == 0 {
		arches = []string{""}
	}

	seen := map[string]bool{}
	for _, p := range ws.Projects {
		projectDir := filepath.Join(ws.Root, p.Location)
		for _, cfg := range configs {
			for _, os_ := range oses {
				for _, arch := range arches {
					ctx := buildctx.Context{Configuration: cfg, Platform: buildctx.Triple{OS: os_, Arch: arch}}
					expander := model.NewExpander(ws, ctx, p, nil)

					objDir := expander.Expand(p.ObjDirTemplate)
					if !filepath.IsAbs(objDir) {
						objDir = filepath.Join(projectDir, objDir)
					}
					targetDir := expander.Expand(p.TargetDirTemplate)
					if !filepath.IsAbs(targetDir) {
						targetDir = filepath.Join(projectDir, targetDir)
					}

					for _, dir := range []string{objDir, targetDir} {
						if seen[dir] {
							continue
						}
						seen[dir] = true
						if err := os.RemoveAll(dir); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	if opts.All && opts.CacheDir != "" {
		if err := os.RemoveAll(opts.CacheDir); err != nil {
			return err
		}
	}
	return nil
}
