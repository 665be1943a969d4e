package families

import (
	"fmt"

	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyEmscripten, func() toolchain.Translator { return emscriptenTranslator{} })
}

// emscriptenTranslator drives emcc/em++/emar (spec.md §6, §4.3). Flag
// dialect matches clang (Emscripten's drivers are clang wrappers) with one
// documented divergence: debug symbols emit a source map flag instead of
// plain -g, and linking always produces the <target>.wasm/.js pair the
// platform packager (pkgpackage) turns into the full HTML/JS/WASM bundle.
type emscriptenTranslator struct{}

func (emscriptenTranslator) Family() model.Family { return model.FamilyEmscripten }

func (t emscriptenTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	compiler := pickEmCompiler(tc, req.Language)
	if compiler == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("emscripten: no compiler configured for language %v", req.Language)
	}

	inv, diags, err := clangTranslator{}.Compile(req)
	if err != nil {
		return inv, diags, err
	}
	inv.Argv[0] = compiler
	inv.Executable = compiler

	if req.DebugSymbols {
		// spec.md §4.3: "-gsource-map for Emscripten debug" instead of
		// plain -g, which clangTranslator already appended; replace it.
		inv.Argv = replaceFlag(inv.Argv, "-g", "-gsource-map")
	}
	return inv, diags, nil
}

func (t emscriptenTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	tc := req.Toolchain
	linker := tc.Linker
	if linker == "" {
		linker = emccName(true)
	}
	var argv []string
	argv = append(argv, linker)
	if req.DebugSymbols {
		argv = append(argv, "-gsource-map")
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

func (t emscriptenTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	ar := req.Toolchain.Archiver
	if ar == "" {
		ar = "emar"
	}
	argv := []string{ar, "rcs", req.Output}
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, req.Objects...)
	return toolchain.Invocation{Argv: argv, Executable: ar}, nil, nil
}

func (emscriptenTranslator) VersionProbe(tc *model.Toolchain) []string {
	compiler := tc.CxxCompiler
	if compiler == "" {
		compiler = emccName(true)
	}
	return []string{compiler, "--version"}
}

func pickEmCompiler(tc *model.Toolchain, lang model.Language) string {
	cxx := lang == model.LangCxx || lang == model.LangObjCxx
	if cxx && tc.CxxCompiler != "" {
		return tc.CxxCompiler
	}
	if !cxx && tc.CCompiler != "" {
		return tc.CCompiler
	}
	return emccName(cxx)
}

func emccName(cxx bool) string {
	if cxx {
		return "em++"
	}
	return "emcc"
}

func replaceFlag(argv []string, old, new string) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i, a := range out {
		if a == old {
			out[i] = new
		}
	}
	return out
}
