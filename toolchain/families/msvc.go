package families

import (
	"fmt"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyMSVC, func() toolchain.Translator { return msvcTranslator{} })
}

// msvcTranslator implements cl.exe/link.exe/lib.exe flag conventions
// (spec.md §4.3: /D vs -D, /I vs -I, /Zi /FS + /DEBUG vs -g, /Fo vs -o,
// lib.exe /OUT: vs ar rcs, link.exe /DLL vs -shared), grounded in the
// teacher's cc/config clang.go vs. a cl.exe-targeting toolchain split —
// Soong itself does not target MSVC, so this file follows the flag table
// spec.md §4.3 specifies directly rather than a teacher source file.
type msvcTranslator struct{}

func (msvcTranslator) Family() model.Family { return model.FamilyMSVC }

func (t msvcTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	compiler := tc.CxxCompiler
	if compiler == "" {
		compiler = tc.CCompiler
	}
	if compiler == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("msvc: no compiler configured")
	}

	var argv []string
	argv = append(argv, compiler, "/c", "/nologo")

	if dialect := msvcDialectFlag(req.Language, req.Dialect); dialect != "" {
		argv = append(argv, dialect)
	}

	argv = append(argv, msvcOptimizeFlags(req.Optimize)...)

	if req.DebugSymbols {
		argv = append(argv, "/Zi", "/FS")
	}
	argv = append(argv, msvcWarningFlags(req.Warnings)...)

	var diags []toolchain.Diagnostic
	for _, s := range req.Sanitizers {
		if s == "address" {
			argv = append(argv, "/fsanitize=address")
		} else {
			diags = append(diags, toolchain.Diagnostic{Flag: "sanitizer:" + s, Reason: "MSVC only supports AddressSanitizer; no precise analog for this sanitizer exists"})
		}
	}

	for _, inc := range req.IncludeDirs {
		argv = append(argv, "/I"+inc)
	}
	for _, def := range req.Defines {
		argv = append(argv, "/D"+def)
	}
	argv = append(argv, tc.BaseCFlagsFor(req.Language)...)
	argv = append(argv, req.ExtraFlags...)

	if req.IsModuleInterface {
		diags = append(diags, toolchain.Diagnostic{Flag: "module-interface", Reason: "MSVC module interfaces (/interface /ifcOutput) require a two-pass scan this translator does not perform; compiled as a plain translation unit"})
	}
	if req.PrecompiledHeaderObj != "" {
		argv = append(argv, "/Yu", "/Fp"+req.PrecompiledHeaderObj)
	}

	depfile := req.DepfilePath
	if depfile == "" {
		depfile = depfileSidecarPath(req.OutputObj)
	}
	// cl.exe has no -MD/-MF equivalent; /sourceDependencies emits an
	// equivalent (JSON) dependency listing the Cache's Tier 2 parser
	// understands (see makedeps.ParseSourceDependencies).
	argv = append(argv, "/sourceDependencies", depfile)
	argv = append(argv, "/Fo"+req.OutputObj, req.Source)

	return toolchain.Invocation{Argv: argv, Executable: compiler, DepfilePath: depfile}, diags, nil
}

func (t msvcTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	linker := req.Toolchain.Linker
	if linker == "" {
		linker = "link.exe"
	}
	var argv []string
	argv = append(argv, linker, "/nologo")
	if req.Kind == model.SharedLib {
		argv = append(argv, "/DLL")
	}
	if req.DebugSymbols {
		argv = append(argv, "/DEBUG")
	}
	for _, d := range req.LibDirs {
		argv = append(argv, "/LIBPATH:"+d)
	}
	argv = append(argv, req.Toolchain.BaseLdFlags...)
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, "/OUT:"+req.Output)
	argv = append(argv, req.Objects...)
	for _, lib := range req.Libs {
		argv = append(argv, lib+".lib")
	}
	return toolchain.Invocation{Argv: argv, Executable: linker}, nil, nil
}

func (t msvcTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	lib := req.Toolchain.Archiver
	if lib == "" {
		lib = "lib.exe"
	}
	argv := []string{lib, "/nologo", "/OUT:" + req.Output}
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, req.Objects...)
	return toolchain.Invocation{Argv: argv, Executable: lib}, nil, nil
}

func (msvcTranslator) VersionProbe(tc *model.Toolchain) []string {
	compiler := tc.CxxCompiler
	if compiler == "" {
		compiler = tc.CCompiler
	}
	// cl.exe prints its version banner to stderr with no version-only
	// flag; running it with no arguments is the conventional probe.
	return []string{compiler}
}

func msvcDialectFlag(lang model.Language, dialect string) string {
	if dialect == "" {
		return ""
	}
	d := strings.ToLower(dialect)
	d = strings.TrimPrefix(d, "c++")
	d = strings.TrimPrefix(d, "c")
	switch lang {
	case model.LangCxx, model.LangObjCxx:
		return "/std:c++" + d
	default:
		return "/std:c" + d
	}
}

func msvcOptimizeFlags(o model.Optimize) []string {
	switch o {
	case model.OptOff:
		return []string{"/Od"}
	case model.OptSize:
		return []string{"/O1"}
	case model.OptSpeed:
		return []string{"/O2"}
	case model.OptFull:
		return []string{"/Ox"}
	default:
		return nil
	}
}

func msvcWarningFlags(w model.Warnings) []string {
	switch w {
	case model.WarnDefault:
		return nil
	case model.WarnExtra:
		return []string{"/W3"}
	case model.WarnAll:
		return []string{"/W4"}
	case model.WarnAsError:
		return []string{"/W4", "/WX"}
	default:
		return nil
	}
}
