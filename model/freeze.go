package model

import (
	"sort"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
)

// Freeze validates the workspace on entry (spec.md §6: "the core validates
// it on entry and rejects workspaces with cycles, missing required fields,
// or unknown enum values") and marks it immutable. The resolver refuses to
// operate on an unfrozen Workspace.
func (w *Workspace) Freeze() error {
	if w.Name == "" {
		return jengaerr.Configuration("workspace: name is required")
	}
	if w.Root == "" {
		return jengaerr.Configuration("workspace: root directory is required")
	}
	if len(w.Configurations) == 0 {
		return jengaerr.Configuration("workspace %q: at least one configuration is required", w.Name)
	}

	seenProjects := make(map[string]bool, len(w.Projects))
	for _, p := range w.Projects {
		if p.Name == "" {
			return jengaerr.Configuration("workspace %q: project with empty name", w.Name)
		}
		if seenProjects[p.Name] {
			return jengaerr.Configuration("workspace %q: duplicate project name %q", w.Name, p.Name)
		}
		seenProjects[p.Name] = true

		if err := p.validate(); err != nil {
			return err
		}
	}

	for _, p := range w.Projects {
		for _, dep := range p.DependsOn {
			if !seenProjects[dep] {
				return jengaerr.Resolution(p.Name, "dependson references undefined project %q", dep)
			}
		}
	}

	if _, cycle, ok := TopoOrder(w.Projects); !ok {
		sort.Strings(cycle)
		return jengaerr.Configuration("dependency cycle among projects: %s", strings.Join(cycle, ", "))
	}

	for name, tc := range w.Toolchains {
		if err := tc.validate(name); err != nil {
			return err
		}
	}

	if w.StartupProject != "" && !seenProjects[w.StartupProject] {
		return jengaerr.Configuration("workspace %q: startup project %q is not defined", w.Name, w.StartupProject)
	}

	w.frozen = true
	return nil
}

func (p *Project) validate() error {
	switch p.Kind {
	case ConsoleApp, WindowedApp, StaticLib, SharedLib, TestSuite:
	default:
		return jengaerr.Configuration("project %q: unknown kind %v", p.Name, p.Kind)
	}
	switch p.Language {
	case LangC, LangCxx, LangObjC, LangObjCxx, LangAsm:
	default:
		return jengaerr.Configuration("project %q: unknown language %v", p.Name, p.Language)
	}
	if p.Location == "" {
		return jengaerr.Configuration("project %q: location is required", p.Name)
	}
	if len(p.Files) == 0 && len(p.Filters) == 0 {
		return jengaerr.Configuration("project %q: declares no source files and no filters that could add any", p.Name)
	}
	if p.Kind == TestSuite && p.TestOptions == nil {
		return jengaerr.Configuration("project %q: kind test-suite requires TestOptions", p.Name)
	}
	for i, f := range p.Filters {
		if strings.TrimSpace(f.Predicate) == "" {
			return jengaerr.Configuration("project %q: filter[%d] has empty predicate", p.Name, i)
		}
	}
	return nil
}

func (t *Toolchain) validate(name string) error {
	if t.OS == "" || t.Arch == "" {
		return jengaerr.Configuration("toolchain %q: os and arch are required", name)
	}
	switch t.Family {
	case FamilyClang, FamilyGCC, FamilyMSVC, FamilyAndroidNDK, FamilyEmscripten, FamilyAppleClang, FamilyZig:
	default:
		return jengaerr.Configuration("toolchain %q: unknown family %v", name, t.Family)
	}
	if t.CCompiler == "" && t.CxxCompiler == "" {
		return jengaerr.Configuration("toolchain %q: at least one of CCompiler/CxxCompiler is required", name)
	}
	return nil
}
