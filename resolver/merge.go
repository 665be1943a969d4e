package resolver

import "github.com/RihenUniverse/Jenga-sub001/model"

// mergedFields accumulates the base project fields plus every matching
// filter's delta, applied in declaration order (spec.md §4.2 step 2).
type mergedFields struct {
	files            []string
	excludeFiles     []string
	excludeMainFiles []string
	includeDirs      []string
	libDirs          []string
	links            []string
	dependsOn        []string
	fileDeps         []string
	defines          []string
	sanitizers       []string

	optimize     model.Optimize
	debugSymbols bool
	warnings     model.Warnings
	useToolchain string
	objDir       string
	targetDir    string
	targetName   string
}

// apply merges one filter's delta into m. List-valued fields are appended;
// scalar fields are overwritten only when the delta sets them (non-nil
// pointer, or non-empty string) — "later filters override earlier ones...
// this is the contract the user writes against" (spec.md §4.2).
func (m *mergedFields) apply(d model.ProjectDelta) {
	m.files = append(m.files, d.Files...)
	m.excludeFiles = append(m.excludeFiles, d.ExcludeFiles...)
	m.excludeMainFiles = append(m.excludeMainFiles, d.ExcludeMainFiles...)
	m.includeDirs = append(m.includeDirs, d.IncludeDirs...)
	m.libDirs = append(m.libDirs, d.LibDirs...)
	m.links = append(m.links, d.Links...)
	m.dependsOn = append(m.dependsOn, d.DependsOn...)
	m.fileDeps = append(m.fileDeps, d.FileDeps...)
	m.defines = append(m.defines, d.Defines...)
	m.sanitizers = append(m.sanitizers, d.Sanitizers...)

	if d.Optimize != nil {
		m.optimize = *d.Optimize
	}
	if d.DebugSymbols != nil {
		m.debugSymbols = *d.DebugSymbols
	}
	if d.Warnings != nil {
		m.warnings = *d.Warnings
	}
	if d.UseToolchain != "" {
		m.useToolchain = d.UseToolchain
	}
	if d.ObjDir != "" {
		m.objDir = d.ObjDir
	}
	if d.TargetDir != "" {
		m.targetDir = d.TargetDir
	}
	if d.TargetName != "" {
		m.targetName = d.TargetName
	}
}
