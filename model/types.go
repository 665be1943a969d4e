// Package model holds the immutable workspace/project/toolchain records
// consumed by the build engine (spec.md §3). Values are built up by an
// external front-end (out of scope for this module) as plain struct
// values, then frozen with Workspace.Freeze before being handed
// to the resolver. Grounded in the teacher's android.Config / cc.Module
// property-struct shape, reworked from Soong's mutable-bag-of-properties
// style into explicit Go structs built once and never mutated after
// Freeze.
package model

// Kind enumerates the five project kinds spec.md §3 names.
type Kind int

const (
	ConsoleApp Kind = iota
	WindowedApp
	StaticLib
	SharedLib
	TestSuite
)

func (k Kind) String() string {
	switch k {
	case ConsoleApp:
		return "console-app"
	case WindowedApp:
		return "windowed-app"
	case StaticLib:
		return "static-lib"
	case SharedLib:
		return "shared-lib"
	case TestSuite:
		return "test-suite"
	default:
		return "unknown"
	}
}

// Language enumerates the source languages the engine compiles.
type Language int

const (
	LangC Language = iota
	LangCxx
	LangObjC
	LangObjCxx
	LangAsm
)

func (l Language) String() string {
	switch l {
	case LangC:
		return "c"
	case LangCxx:
		return "c++"
	case LangObjC:
		return "objc"
	case LangObjCxx:
		return "objc++"
	case LangAsm:
		return "asm"
	default:
		return "unknown"
	}
}

// Optimize enumerates the optimization levels spec.md §4.3 names.
type Optimize int

const (
	OptOff Optimize = iota
	OptSize
	OptSpeed
	OptFull
)

// Warnings enumerates warning levels; toolchain translators map this to
// family-specific flags (spec.md §4.3).
type Warnings int

const (
	WarnDefault Warnings = iota
	WarnExtra
	WarnAll
	WarnAsError
)

// Hook is one shell-command template run at a build-lifecycle point
// (spec.md §3 "ordered build hooks"). Command is expanded via the
// variable-expansion rules of §4.1 before being parsed and executed by
// mvdan.cc/sh (see the scheduler package's runHooks).
type Hook struct {
	Command string
}

// HookSet groups the four hook points a project may declare.
type HookSet struct {
	PreBuild  []Hook
	PreLink   []Hook
	PostLink  []Hook
	PostBuild []Hook
}

// TestOptions configures a TestSuite-kind project (SPEC_FULL.md §3).
type TestOptions struct {
	RunnerCommand string // template, expanded like any other field
	SourceRoot    string // resolves %{Jenga.Unitest.Source} for this project
}

// PlatformMeta is an opaque per-platform metadata bag (Android, iOS,
// Emscripten, Xbox, HarmonyOS) consumed only by the relevant platform
// packager; the engine core passes it through unexamined except for the
// keys each packager documents (see pkgpackage).
type PlatformMeta map[string]string

// FilterBlock is a predicate plus a partial delta applied to the owning
// Project when the predicate matches the active Context (spec.md §3, §4.1,
// §4.2, and the "Filter blocks as deferred deltas" design note in §9 of
// spec.md). The delta only ever ADDS to list-valued fields and OVERWRITES
// scalar fields; see resolver.Resolve for the merge semantics.
type FilterBlock struct {
	Predicate string
	Delta     ProjectDelta
}

// ProjectDelta is the subset of Project fields a filter block may override.
// List fields are appended to the base project's lists in filter
// declaration order; scalar fields, when non-zero-valued, overwrite.
type ProjectDelta struct {
	Files             []string
	ExcludeFiles      []string
	ExcludeMainFiles  []string
	IncludeDirs       []string
	LibDirs           []string
	Links             []string
	DependsOn         []string
	FileDeps          []string
	Defines           []string
	Sanitizers        []string

	Optimize      *Optimize
	DebugSymbols  *bool
	Warnings      *Warnings
	UseToolchain  string
	ObjDir        string
	TargetDir     string
	TargetName    string
}

// Project is a single compilation target (spec.md §3).
type Project struct {
	Name     string
	Kind     Kind
	Language Language
	Dialect  string // e.g. "C++17", "C11"
	Location string // directory, relative to Workspace.Root

	Files            []string // source globs
	ExcludeFiles     []string // exclusion globs
	ExcludeMainFiles []string // main-file exclusion globs

	IncludeDirs []string
	LibDirs     []string

	ObjDirTemplate    string
	TargetDirTemplate string
	TargetNameOverride string

	Links     []string // linked library names
	DependsOn []string // project dependencies
	FileDeps  []string // file-dependency globs

	Defines      []string
	Optimize     Optimize
	DebugSymbols bool
	Warnings     Warnings

	PCHHeader string
	PCHSource string

	Hooks HookSet

	Android     PlatformMeta
	IOS         PlatformMeta
	Emscripten  PlatformMeta
	Xbox        PlatformMeta
	HarmonyOS   PlatformMeta

	UseToolchain string // override; empty = auto-select by (os, arch)

	Filters []FilterBlock

	Sanitizers             []string
	TestOptions            *TestOptions
	CompileCommandsExport  bool
}

// Toolchain is an abstract compiler description (spec.md §3).
type Toolchain struct {
	Name   string
	Family Family

	OS  string
	Arch string
	Env string

	ClangTriple string // optional LLVM-style target triple

	CCompiler   string
	CxxCompiler string
	Linker      string
	Archiver    string

	Sysroot string

	BaseCFlags   []string
	BaseCxxFlags []string
	BaseLdFlags  []string
	BaseAsFlags  []string
	BaseArFlags  []string
	BaseDefines  []string

	Frameworks           []string // Apple targets
	FrameworkSearchPaths []string

	VersionFlag    string // e.g. "--version"; the clang, gcc, android-ndk and apple-clang probes use it, with a family default if empty; msvc, emscripten and zig ignore it
	VersionRegexp  string // not read by the engine: the whole trimmed probe output is the version string
}

// Family is the compiler-family tag that selects a flag-translation
// strategy (spec.md §3, §4.3).
type Family int

const (
	FamilyClang Family = iota
	FamilyGCC
	FamilyMSVC
	FamilyAndroidNDK
	FamilyEmscripten
	FamilyAppleClang
	FamilyZig
)

func (f Family) String() string {
	switch f {
	case FamilyClang:
		return "clang"
	case FamilyGCC:
		return "gcc"
	case FamilyMSVC:
		return "msvc"
	case FamilyAndroidNDK:
		return "android-ndk"
	case FamilyEmscripten:
		return "emscripten"
	case FamilyAppleClang:
		return "apple-clang"
	case FamilyZig:
		return "zig"
	default:
		return "unknown"
	}
}

// ExternalInclusion tags a project list merged in from an external
// configuration script (spec.md §3 "External-inclusion record"). The core
// sees only the final merged Workspace.Projects; this record is retained
// only for diagnostics (e.g. "defined in vendor/foo/build.jenga").
type ExternalInclusion struct {
	SourceFile string
	Whitelist  []string
	Blacklist  []string
}

// Workspace is the root record (spec.md §3).
type Workspace struct {
	Name string
	Root string

	Configurations []string // e.g. "Debug", "Release"
	TargetOS       []string
	TargetArch     []string

	StartupProject string

	SDKPaths map[string]string // e.g. "android-sdk", "android-ndk", "jdk", "ios-sdk"

	Options []UserOption

	Projects   []*Project
	Toolchains map[string]*Toolchain

	ExternalInclusions map[string]ExternalInclusion

	ToolchainRegistryPath string

	frozen bool
}

// UserOption is a custom, user-declared build option (spec.md §3).
type UserOption struct {
	Key          string
	DefaultValue string
	AllowedValues []string // empty = unconstrained
}

// IsFrozen reports whether Freeze has been called.
func (w *Workspace) IsFrozen() bool { return w.frozen }
