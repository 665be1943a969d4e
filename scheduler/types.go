// Package scheduler drives the per-project build pipeline of spec.md §4.5:
// prebuild hooks, sequential module-interface precompile, a bounded worker
// pool for ordinary translation units, prelink hooks, the single link
// step, platform packaging, and postlink/postbuild hooks — run in the
// project order resolver.BuildOrder produces, with the cancellation and
// ordering guarantees of spec.md §5. Grounded in the teacher's top-level
// `ui/build` driver (the same prebuild/build/postbuild staging, minus
// ninja generation) and `cc/builder.go`'s one-translator-call-per-unit
// shape, reworked onto direct process execution per SPEC_FULL.md §4's
// redesign note.
package scheduler

import (
	"time"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/resolver"
)

// Options configures one Run invocation (the flags named in spec.md §6).
type Options struct {
	Jobs                  int // 0 = auto: max(1, cpu_count-1)
	NoCache               bool
	Verbose               bool
	Action                string
	CompileCommandsExport bool // also write compile_commands.json at the workspace root
}

// UnitStatus is the outcome of one compile unit.
type UnitStatus int

const (
	UnitCompiled UnitStatus = iota
	UnitCached
	UnitFailed
	UnitCancelled
)

// UnitResult is one translation unit's outcome, carrying enough to flush
// diagnostics in source-file order (spec.md §5 ordering guarantee (i)).
type UnitResult struct {
	Source   string
	Status   UnitStatus
	Stdout   string
	Stderr   string
	Err      error
	Argv     []string
	Started  time.Time
	Finished time.Time
}

// ProjectResult is one project's full pipeline outcome.
type ProjectResult struct {
	Project      *resolver.ResolvedProject
	Units        []UnitResult // in declared source order, regardless of completion order
	LinkArgv     []string
	LinkErr      error
	LinkFinished time.Time
	Skipped      bool // a dependency failed or was skipped, the project failed to resolve, or the run was cancelled before it started
	Err          error
}

func (r ProjectResult) Failed() bool {
	if r.Err != nil || r.LinkErr != nil {
		return true
	}
	for _, u := range r.Units {
		if u.Status == UnitFailed {
			return true
		}
	}
	return false
}

// BuildResult aggregates every project's outcome for one Run invocation.
type BuildResult struct {
	// RunID identifies this build run in log output (cmd/jenga logs it on
	// completion); no file is named after it.
	RunID    string
	Projects []ProjectResult
	// Errors holds project-level errors in build order, not completion
	// order. Per-unit outcomes are not listed here; they are in each
	// ProjectResult.Units, in declared source order.
	Errors []*jengaerr.Error
}

// Failed reports whether any project in the result failed.
func (r BuildResult) Failed() bool {
	return len(r.Errors) > 0
}

// runState threads the per-run, cross-project values the pipeline needs:
// the frozen workspace, the active context, the filesystem abstraction,
// the run options and ID, and the project being built.
type runState struct {
	ws      *model.Workspace
	ctx     buildctx.Context
	fs      resolver.GlobFS
	opts    Options
	runID   string
	project *resolver.ResolvedProject
}
