// Package families holds one Translator implementation per compiler
// family named in spec.md §4.3, each registered with package toolchain via
// init(). Flag-translation policy for each family is grounded in the
// teacher's cc/config/{clang,global}.go and arm64_device.go/x86_64_device.go
// device-specific flag tables, generalized from Android-only targets to
// the full cross-platform family set SPEC_FULL.md names.
package families

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyClang, func() toolchain.Translator { return clangTranslator{} })
}

// clangTranslator implements the Clang/LLVM flag dialect shared by plain
// clang, Android NDK clang, and (with minor overrides) Apple clang and
// zig cc — all GCC-compatible-frontend compilers that diverge from GNU
// `-o`-style flag conventions only in a handful of optimize/sanitizer
// spellings, following the teacher's clang.go split from global.go.
type clangTranslator struct{}

func (clangTranslator) Family() model.Family { return model.FamilyClang }

func (t clangTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	compiler := pickCompiler(tc, req.Language)
	if compiler == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("clang: no compiler configured for language %v", req.Language)
	}

	var argv []string
	argv = append(argv, compiler)
	argv = append(argv, "-c")

	if dialectFlag := cxxDialectFlag(req.Language, req.Dialect); dialectFlag != "" {
		argv = append(argv, dialectFlag)
	}

	argv = append(argv, optimizeFlagsGNU(req.Optimize)...)

	if req.DebugSymbols {
		argv = append(argv, "-g")
	}
	argv = append(argv, warningFlagsGNU(req.Warnings)...)

	var diags []toolchain.Diagnostic
	for _, s := range req.Sanitizers {
		if flag, ok := clangSanitizerFlag(s); ok {
			argv = append(argv, flag)
		} else {
			diags = append(diags, toolchain.Diagnostic{Flag: "sanitizer:" + s, Reason: "clang has no equivalent for this sanitizer name"})
		}
	}

	for _, inc := range req.IncludeDirs {
		argv = append(argv, "-I"+inc)
	}
	for _, def := range req.Defines {
		argv = append(argv, "-D"+def)
	}
	argv = append(argv, tc.BaseCFlagsFor(req.Language)...)
	argv = append(argv, req.ExtraFlags...)

	if req.IsModuleInterface {
		argv = append(argv, "--precompile")
	}
	if req.PrecompiledHeaderObj != "" {
		argv = append(argv, "-include-pch", req.PrecompiledHeaderObj)
	}

	depfile := req.DepfilePath
	if depfile == "" && req.OutputObj != "" {
		depfile = depfileSidecarPath(req.OutputObj)
	}
	if depfile != "" {
		argv = append(argv, "-MD", "-MF", depfile)
	}

	argv = append(argv, "-o", req.OutputObj, req.Source)

	return toolchain.Invocation{Argv: argv, Executable: compiler, DepfilePath: depfile}, diags, nil
}

func (t clangTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	linker := tc.Linker
	if linker == "" {
		linker = tc.CxxCompiler
	}
	if linker == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("clang: no linker configured")
	}

	var argv []string
	argv = append(argv, linker)
	if req.Kind == model.SharedLib {
		argv = append(argv, "-shared")
	}
	if req.DebugSymbols {
		argv = append(argv, "-g")
	}
	for _, d := range req.LibDirs {
		argv = append(argv, "-L"+d)
	}
	argv = append(argv, tc.BaseLdFlags...)
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, "-o", req.Output)
	argv = append(argv, req.Objects...)
	for _, lib := range req.Libs {
		argv = append(argv, "-l"+lib)
	}

	return toolchain.Invocation{Argv: argv, Executable: linker}, nil, nil
}

func (t clangTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	ar := req.Toolchain.Archiver
	if ar == "" {
		ar = "ar"
	}
	argv := []string{ar, "rcs", req.Output}
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, req.Objects...)
	return toolchain.Invocation{Argv: argv, Executable: ar}, nil, nil
}

func (clangTranslator) VersionProbe(tc *model.Toolchain) []string {
	compiler := tc.CxxCompiler
	if compiler == "" {
		compiler = tc.CCompiler
	}
	flag := tc.VersionFlag
	if flag == "" {
		flag = "--version"
	}
	return []string{compiler, flag}
}

// --- shared helpers used by the other GNU-dialect families (gcc.go,
// ndk.go, zig.go, appleclang.go) ---

func pickCompiler(tc *model.Toolchain, lang model.Language) string {
	switch lang {
	case model.LangC, model.LangObjC, model.LangAsm:
		if tc.CCompiler != "" {
			return tc.CCompiler
		}
		return tc.CxxCompiler
	default:
		if tc.CxxCompiler != "" {
			return tc.CxxCompiler
		}
		return tc.CCompiler
	}
}

func cxxDialectFlag(lang model.Language, dialect string) string {
	if dialect == "" {
		return ""
	}
	switch lang {
	case model.LangCxx, model.LangObjCxx:
		return "-std=" + strings.ToLower(dialect)
	case model.LangC:
		return "-std=" + strings.ToLower(dialect)
	default:
		return ""
	}
}

// optimizeFlagsGNU implements spec.md §4.3's "speed -> -O2 for GCC/Clang,
// -> -O3 for full".
func optimizeFlagsGNU(o model.Optimize) []string {
	switch o {
	case model.OptOff:
		return []string{"-O0"}
	case model.OptSize:
		return []string{"-Os"}
	case model.OptSpeed:
		return []string{"-O2"}
	case model.OptFull:
		return []string{"-O3"}
	default:
		return nil
	}
}

func warningFlagsGNU(w model.Warnings) []string {
	switch w {
	case model.WarnDefault:
		return nil
	case model.WarnExtra:
		return []string{"-Wextra"}
	case model.WarnAll:
		return []string{"-Wall", "-Wextra"}
	case model.WarnAsError:
		return []string{"-Wall", "-Wextra", "-Werror"}
	default:
		return nil
	}
}

func clangSanitizerFlag(name string) (string, bool) {
	switch name {
	case "address":
		return "-fsanitize=address", true
	case "undefined":
		return "-fsanitize=undefined", true
	case "thread":
		return "-fsanitize=thread", true
	case "fuzzer":
		return "-fsanitize=fuzzer", true
	default:
		return "", false
	}
}

// depfileSidecarPath derives the default .d path next to an object file,
// used by callers that don't set CompileRequest.DepfilePath explicitly.
func depfileSidecarPath(objPath string) string {
	return strings.TrimSuffix(objPath, filepath.Ext(objPath)) + ".d"
}
