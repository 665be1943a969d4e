package families

import (
	"fmt"

	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyGCC, func() toolchain.Translator { return gccTranslator{} })
}

// gccTranslator shares clang's GNU-style flag spellings (-O2/-O3, -D, -I,
// -g, -MD -MF) almost entirely; the two families diverge mainly in which
// sanitizer names are recognized and in diagnostics for Clang-only flags
// (spec.md §4.3 per-family fixed policy, teacher's cc/config/clang.go
// ClangUnknownCflags documents the inverse: GCC flags clang rejects).
type gccTranslator struct{}

func (gccTranslator) Family() model.Family { return model.FamilyGCC }

func (t gccTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	compiler := pickCompiler(tc, req.Language)
	if compiler == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("gcc: no compiler configured for language %v", req.Language)
	}

	var argv []string
	argv = append(argv, compiler, "-c")
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
		switch s {
		case "address", "undefined", "thread":
			argv = append(argv, "-fsanitize="+s)
		default:
			diags = append(diags, toolchain.Diagnostic{Flag: "sanitizer:" + s, Reason: "gcc has no equivalent for this sanitizer (fuzzer sanitizer is clang/libFuzzer-only)"})
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
		diags = append(diags, toolchain.Diagnostic{Flag: "module-interface", Reason: "this gcc toolchain's C++20 module support is not assumed; compiled as a plain translation unit"})
	}
	if req.PrecompiledHeaderObj != "" {
		argv = append(argv, "-include", req.PrecompiledHeaderObj)
	}

	depfile := req.DepfilePath
	if depfile == "" {
		depfile = depfileSidecarPath(req.OutputObj)
	}
	argv = append(argv, "-MD", "-MF", depfile)
	argv = append(argv, "-o", req.OutputObj, req.Source)

	return toolchain.Invocation{Argv: argv, Executable: compiler, DepfilePath: depfile}, diags, nil
}

func (t gccTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	linker := tc.Linker
	if linker == "" {
		linker = tc.CxxCompiler
	}
	if linker == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("gcc: no linker configured")
	}
	var argv []string
	argv = append(argv, linker)
	if req.Kind == model.SharedLib {
		argv = append(argv, "-shared", "-fPIC")
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

func (t gccTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	ar := req.Toolchain.Archiver
	if ar == "" {
		ar = "ar"
	}
	argv := []string{ar, "rcs", req.Output}
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, req.Objects...)
	return toolchain.Invocation{Argv: argv, Executable: ar}, nil, nil
}

func (gccTranslator) VersionProbe(tc *model.Toolchain) []string {
	compiler := tc.CxxCompiler
	if compiler == "" {
		compiler = tc.CCompiler
	}
	flag := tc.VersionFlag
	if flag == "" {
		flag = "-dumpversion"
	}
	return []string{compiler, flag}
}
