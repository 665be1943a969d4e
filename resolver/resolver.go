// Package resolver implements spec.md §4.2: per-(project, context)
// resolution of effective project settings, and the project build order.
// Grounded in the teacher's per-module mutator pass (android/module.go's
// context-carrying resolution) and cc.Module's property-merging, reworked
// into a pure function of (project, context) per the "Filter blocks as
// deferred deltas" design note in spec.md §9.
package resolver

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
)

// ResolvedProject is the effective, fully expanded configuration of one
// project under one build Context (spec.md §4.2).
type ResolvedProject struct {
	Project *model.Project
	Context buildctx.Context

	Sources      []string // absolute paths, after glob+exclude, deterministic order
	IncludeDirs  []string
	LibDirs      []string
	Links        []string
	DependsOn    []string
	FileDeps     []string
	Defines      []string
	Sanitizers   []string

	Optimize     model.Optimize
	DebugSymbols bool
	Warnings     model.Warnings

	ObjDir     string
	TargetDir  string
	TargetName string

	Toolchain *model.Toolchain
}

// MissingIncludeDirs names a list of include directories that do not exist
// on disk. Resolve does not return this type: it reports each missing
// directory as one of its warning strings, not as a fatal error, since a
// prebuild hook may create them.
type MissingIncludeDirs = []string

// GlobFS abstracts filesystem access so tests can exercise resolution
// without touching disk; production code uses OSFileSystem.
type GlobFS interface {
	// Glob returns paths (files and directories) relative to dir matching
	// pattern, in deterministic alphabetical-by-byte order (spec.md §4.1
	// "Glob expansion").
	Glob(dir, pattern string) ([]string, error)
	// Exists reports whether path exists.
	Exists(path string) bool
}

// Resolve computes the effective settings of one project under ctx,
// following the five steps of spec.md §4.2.
func Resolve(ws *model.Workspace, p *model.Project, ctx buildctx.Context, fs GlobFS) (*ResolvedProject, []string, error) {
	if !ws.IsFrozen() {
		return nil, nil, jengaerr.Configuration("workspace %q must be frozen before resolution", ws.Name)
	}

	// Step 1/2: start from base fields, apply matching filters in
	// declaration order, list fields appended, scalar fields overwritten.
	merged := mergedFields{
		files:            append([]string{}, p.Files...),
		excludeFiles:     append([]string{}, p.ExcludeFiles...),
		excludeMainFiles: append([]string{}, p.ExcludeMainFiles...),
		includeDirs:      append([]string{}, p.IncludeDirs...),
		libDirs:          append([]string{}, p.LibDirs...),
		links:            append([]string{}, p.Links...),
		dependsOn:        append([]string{}, p.DependsOn...),
		fileDeps:         append([]string{}, p.FileDeps...),
		defines:          append([]string{}, p.Defines...),
		sanitizers:       append([]string{}, p.Sanitizers...),
		optimize:         p.Optimize,
		debugSymbols:     p.DebugSymbols,
		warnings:         p.Warnings,
		useToolchain:     p.UseToolchain,
		objDir:           p.ObjDirTemplate,
		targetDir:        p.TargetDirTemplate,
		targetName:       p.TargetNameOverride,
	}

	for _, f := range p.Filters {
		match, err := model.EvalPredicateString(f.Predicate, ctx)
		if err != nil {
			return nil, nil, jengaerr.Configuration("project %q: %v", p.Name, err)
		}
		if !match {
			continue
		}
		merged.apply(f.Delta)
	}

	// Step 3: expand variable tokens, then expand globs.
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	expander := model.NewExpander(ws, ctx, p, warn)

	projectDir := filepath.Join(ws.Root, p.Location)

	expandedIncludes := expandAll(expander, merged.includeDirs)
	expandedLibDirs := expandAll(expander, merged.libDirs)
	expandedDefines := expandAll(expander, merged.defines)

	sources, err := expandSources(fs, expander, projectDir, merged.files, merged.excludeFiles)
	if err != nil {
		return nil, nil, err
	}
	if len(merged.files) > 0 && len(sources) == 0 {
		return nil, nil, jengaerr.Resolution(p.Name, "source globs %v matched zero files", merged.files)
	}

	var missingIncludes []string
	for _, inc := range expandedIncludes {
		abs := inc
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(projectDir, abs)
		}
		if !fs.Exists(abs) {
			missingIncludes = append(missingIncludes, abs)
		}
	}

	// Step 4: resolve the toolchain.
	tc, err := resolveToolchain(ws, p, merged.useToolchain, ctx)
	if err != nil {
		return nil, nil, err
	}

	// Step 5: validate remaining invariants.
	if tc.Family == model.FamilyMSVC && p.Language == model.LangObjC {
		return nil, nil, jengaerr.Configuration("project %q: toolchain family msvc cannot compile Objective-C", p.Name)
	}
	for _, dep := range merged.dependsOn {
		found := false
		for _, other := range ws.Projects {
			if other.Name == dep {
				found = true
				break
			}
		}
		if !found {
			return nil, nil, jengaerr.Resolution(p.Name, "dependson references undefined project %q", dep)
		}
	}

	rp := &ResolvedProject{
		Project:      p,
		Context:      ctx,
		Sources:      sources,
		IncludeDirs:  expandedIncludes,
		LibDirs:      expandedLibDirs,
		Links:        append([]string{}, merged.links...),
		DependsOn:    append([]string{}, merged.dependsOn...),
		FileDeps:     append([]string{}, merged.fileDeps...),
		Defines:      expandedDefines,
		Sanitizers:   append([]string{}, merged.sanitizers...),
		Optimize:     merged.optimize,
		DebugSymbols: merged.debugSymbols,
		Warnings:     merged.warnings,
		ObjDir:       expander.Expand(merged.objDir),
		TargetDir:    expander.Expand(merged.targetDir),
		TargetName:   targetNameOrDefault(expander.Expand(merged.targetName), p.Name),
		Toolchain:    tc,
	}
	for _, m := range missingIncludes {
		warnings = append(warnings, fmt.Sprintf("include directory does not exist: %s", m))
	}
	return rp, warnings, nil
}

func targetNameOrDefault(expanded, projectName string) string {
	if expanded != "" {
		return expanded
	}
	return projectName
}

func resolveToolchain(ws *model.Workspace, p *model.Project, useToolchain string, ctx buildctx.Context) (*model.Toolchain, error) {
	if useToolchain != "" {
		tc, ok := ws.Toolchains[useToolchain]
		if !ok {
			return nil, jengaerr.Configuration("project %q: usetoolchain %q is not defined in the workspace", p.Name, useToolchain)
		}
		return tc, nil
	}
	// First toolchain whose (os, arch) matches the context, in map
	// iteration order made deterministic by sorting toolchain names.
	names := make([]string, 0, len(ws.Toolchains))
	for name := range ws.Toolchains {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tc := ws.Toolchains[name]
		if tc.OS == ctx.Platform.OS && tc.Arch == ctx.Platform.Arch {
			return tc, nil
		}
	}
	return nil, jengaerr.Configuration("project %q: no toolchain matches platform %s (set usetoolchain explicitly)", p.Name, ctx.Platform.String())
}

func expandAll(e *model.Expander, in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = e.Expand(s)
	}
	return out
}
