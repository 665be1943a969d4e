package families

import (
	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyAppleClang, func() toolchain.Translator { return appleClangTranslator{} })
}

// appleClangTranslator is Apple's Xcode-shipped clang, invoked through
// `xcrun` (spec.md §6 "Apple Clang (xcrun-wrapped)"), with the framework
// search-path and -framework linking spec.md §4.3 calls out as Apple-only
// ("-I vs -isystem for Apple frameworks").
type appleClangTranslator struct{}

func (appleClangTranslator) Family() model.Family { return model.FamilyAppleClang }

func (t appleClangTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Compile(req)
	if err != nil {
		return inv, diags, err
	}
	inv = wrapXcrun(inv)
	for _, fw := range req.Toolchain.FrameworkSearchPaths {
		inv.Argv = insertAfterCompiler(inv.Argv, []string{"-iframework", fw})
	}
	return inv, diags, nil
}

func (t appleClangTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Link(req)
	if err != nil {
		return inv, diags, err
	}
	inv = wrapXcrun(inv)
	for _, fw := range req.Toolchain.FrameworkSearchPaths {
		inv.Argv = append(inv.Argv, "-F"+fw)
	}
	for _, fw := range req.Toolchain.Frameworks {
		inv.Argv = append(inv.Argv, "-framework", fw)
	}
	return inv, diags, nil
}

func (t appleClangTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Archive(req)
	if err != nil {
		return inv, diags, err
	}
	return wrapXcrun(inv), diags, nil
}

func (appleClangTranslator) VersionProbe(tc *model.Toolchain) []string {
	probe := clangTranslator{}.VersionProbe(tc)
	return append([]string{"xcrun"}, probe...)
}

func wrapXcrun(inv toolchain.Invocation) toolchain.Invocation {
	inv.Argv = append([]string{"xcrun"}, inv.Argv...)
	inv.Executable = "xcrun"
	return inv
}

// insertAfterCompiler inserts extra flags right after argv[1] ("xcrun",
// compiler, ...) so -iframework entries land before the source/output
// flags clangTranslator already appended.
func insertAfterCompiler(argv []string, extra []string) []string {
	if len(argv) < 2 {
		return append(argv, extra...)
	}
	out := make([]string, 0, len(argv)+len(extra))
	out = append(out, argv[:2]...)
	out = append(out, extra...)
	out = append(out, argv[2:]...)
	return out
}
