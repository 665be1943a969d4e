// Package toolchain implements spec.md §4.3: translating an abstract
// compile/link/archive request into concrete argv for one of seven
// compiler families. Grounded in the teacher's cc/config.Toolchain
// interface and per-arch factory registry (cc/config/toolchain.go,
// arm_device.go, x86_64_device.go, darwin_host.go), generalized from
// Android-only device toolchains to the full family set spec.md names,
// and in the family-dispatch shape of poppolopoppo/ppb's internal/hal
// (LLVM.go, GCC.go) for the non-Android families.
package toolchain

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RihenUniverse/Jenga-sub001/model"
)

// PayloadKind distinguishes the several artifacts a family translator may
// be asked to produce, beyond a plain object file.
type PayloadKind int

const (
	PayloadObject PayloadKind = iota
	PayloadExecutable
	PayloadStaticLib
	PayloadSharedLib
	PayloadModuleInterface // .pcm / .ifc
	PayloadPrecompiledHeader
)

// CompileRequest is the abstract shape of one compile invocation; a
// Translator turns it into concrete argv (spec.md §4.3).
type CompileRequest struct {
	Toolchain *model.Toolchain
	Language  model.Language
	Dialect   string

	Source      string
	OutputObj   string
	DepfilePath string // Tier 2 input; translator must request compiler-generated dep output here

	IncludeDirs []string
	Defines     []string
	ExtraFlags  []string // project-declared raw flags, passed through verbatim

	Optimize     model.Optimize
	DebugSymbols bool
	Warnings     model.Warnings
	Sanitizers   []string

	IsModuleInterface    bool
	PrecompiledHeaderObj string // non-empty when this unit consumes a PCH

	CompileCommandsExport bool // also emit a compdb entry (SPEC_FULL.md §12)
}

// LinkRequest is the abstract shape of a link invocation.
type LinkRequest struct {
	Toolchain *model.Toolchain
	Kind      model.Kind // ConsoleApp/WindowedApp/SharedLib select exe vs dll linking

	Objects    []string
	LibDirs    []string
	Libs       []string // linked library names (spec.md §3 "linked library names")
	Output     string
	ExtraFlags []string

	DebugSymbols bool
	UseResponseFile bool // not read by any translator; no translator assembles @file arguments
}

// ArchiveRequest is the abstract shape of a static-library archive step.
type ArchiveRequest struct {
	Toolchain  *model.Toolchain
	Objects    []string
	Output     string
	ExtraFlags []string
}

// Invocation is the concrete argv a Translator produces, plus metadata the
// Scheduler/Cache need: which executable to run, and (for compiles) where
// the compiler will write its Make-style dependency file.
type Invocation struct {
	Argv        []string
	Executable  string
	DepfilePath string // empty if this invocation does not produce one
}

// Translator is implemented once per compiler family (package
// toolchain/families). Each method that has no equivalent in a family
// (e.g. MSVC has no precise analog of a Clang sanitizer) must return a
// Diagnostic describing what was skipped rather than silently emitting the
// wrong flag (spec.md §4.3 "the translator must emit a diagnostic and skip
// the flag rather than silently translate to the wrong thing").
type Translator interface {
	Family() model.Family

	Compile(req CompileRequest) (Invocation, []Diagnostic, error)
	Link(req LinkRequest) (Invocation, []Diagnostic, error)
	Archive(req ArchiveRequest) (Invocation, []Diagnostic, error)

	// VersionProbe returns the argv used to capture the compiler's version
	// string for Tier 3 identity signatures (spec.md §4.4), e.g.
	// ["clang++", "--version"].
	VersionProbe(tc *model.Toolchain) []string
}

// Diagnostic is a non-fatal note surfaced when a requested behavior has no
// family-specific equivalent.
type Diagnostic struct {
	Flag   string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("flag %q skipped: %s", d.Flag, d.Reason)
}

var registry = map[model.Family]func() Translator{}

// Register adds a family's Translator factory to the registry; called from
// each families/*.go file's init().
func Register(family model.Family, factory func() Translator) {
	registry[family] = factory
}

// For returns the Translator for tc's family. Mismatched family vs.
// executable (e.g. family=msvc but CCompiler="clang") is treated as user
// error, not silently corrected (spec.md §3 Toolchain invariant) — For
// itself only resolves the family; argv assembly is where a missing
// executable becomes a ToolNotFound error (see scheduler).
func For(family model.Family) (Translator, error) {
	factory, ok := registry[family]
	if !ok {
		return nil, fmt.Errorf("toolchain: no translator registered for family %v", family)
	}
	return factory(), nil
}

// LoadRegistry decodes a JSON file at path into a name-keyed map of
// pre-registered toolchains, using the same schema as model.Toolchain
// (spec.md §6 "A JSON file at an implementation-defined location may list
// pre-registered toolchains with the same schema as §3's Toolchain").
func LoadRegistry(path string) (map[string]*model.Toolchain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("toolchain: reading registry %s: %w", path, err)
	}
	var reg map[string]*model.Toolchain
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("toolchain: parsing registry %s: %w", path, err)
	}
	return reg, nil
}

// MergeRegistry merges reg into ws.Toolchains, with workspace-declared
// toolchains taking precedence over the registry (spec.md §6 "the core
// merges these into the workspace before resolution, with
// workspace-declared toolchains taking precedence").
func MergeRegistry(ws *model.Workspace, reg map[string]*model.Toolchain) {
	if ws.Toolchains == nil {
		ws.Toolchains = map[string]*model.Toolchain{}
	}
	for name, tc := range reg {
		if _, exists := ws.Toolchains[name]; exists {
			continue
		}
		ws.Toolchains[name] = tc
	}
}
