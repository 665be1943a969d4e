// Package jengaerr defines the closed error taxonomy of the build engine
// (spec.md §7). Every fatal or per-unit failure the engine produces is one
// of these variants, so the CLI layer can map it to the right exit code
// (0 success, 1 build failure, 2 configuration error, 3 cancellation)
// without string-matching error messages.
package jengaerr

import "fmt"

// Kind distinguishes the seven error categories of spec.md §7.
type Kind int

const (
	_ Kind = iota
	KindConfiguration
	KindResolution
	KindToolInvocation
	KindToolNotFound
	KindCacheCorruption
	KindCancellation
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindResolution:
		return "resolution error"
	case KindToolInvocation:
		return "tool invocation failure"
	case KindToolNotFound:
		return "tool not found"
	case KindCacheCorruption:
		return "cache corruption"
	case KindCancellation:
		return "cancelled"
	case KindIO:
		return "I/O failure"
	default:
		return "unknown error"
	}
}

// ExitCode maps a Kind to the process exit code named in spec.md §6.
func (k Kind) ExitCode() int {
	switch k {
	case KindCancellation:
		return 3
	case KindConfiguration, KindResolution, KindToolNotFound:
		return 2
	default:
		return 1
	}
}

// Error is the common shape of every engine-produced failure. Project and
// Unit are empty when the failure predates project resolution (e.g. a
// workspace-level configuration error).
type Error struct {
	Kind    Kind
	Project string
	Unit    string // source path of the affected compile unit, if any
	Argv    []string
	Stderr  string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Project != "" {
		msg += " in project " + e.Project
	}
	if e.Unit != "" {
		msg += " (" + e.Unit + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind for project, wrapping cause.
func New(kind Kind, project string, cause error) *Error {
	return &Error{Kind: kind, Project: project, Err: cause}
}

// Configuration reports a configuration error (spec.md §7): unknown enum
// value, malformed template, missing required field, circular dependency,
// unresolved toolchain reference. Fatal before any compile begins.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

// Resolution reports a resolution error scoped to one project: a glob that
// expanded to zero sources, or an undefined dependson/links reference.
// Other projects without the dependency may still build.
func Resolution(project, format string, args ...any) *Error {
	return &Error{Kind: KindResolution, Project: project, Err: fmt.Errorf(format, args...)}
}

// ToolInvocation reports a non-zero exit from a compiler/linker/archiver.
func ToolInvocation(project, unit string, argv []string, stderr string, cause error) *Error {
	return &Error{Kind: KindToolInvocation, Project: project, Unit: unit, Argv: argv, Stderr: stderr, Err: cause}
}

// ToolNotFound reports a missing or non-executable toolchain binary.
func ToolNotFound(project, tool string) *Error {
	return &Error{Kind: KindToolNotFound, Project: project, Err: fmt.Errorf("tool not found or not executable: %s", tool)}
}

// CacheCorruption reports a malformed signature or dependency sidecar; the
// caller treats this as a miss and proceeds to recompile (spec.md §7).
func CacheCorruption(path string, cause error) *Error {
	return &Error{Kind: KindCacheCorruption, Err: fmt.Errorf("corrupt cache artifact %s: %w", path, cause)}
}

// Cancelled reports user-requested cancellation; not an error in the usual
// sense, but still surfaced through the same Error type for uniform exit
// code mapping.
func Cancelled(project string) *Error {
	return &Error{Kind: KindCancellation, Project: project, Err: fmt.Errorf("build cancelled")}
}

// IO reports an I/O failure creating a directory, writing an object, or
// renaming a temp file into place.
func IO(project string, cause error) *Error {
	return &Error{Kind: KindIO, Project: project, Err: cause}
}
