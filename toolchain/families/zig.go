package families

import (
	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyZig, func() toolchain.Translator { return zigTranslator{} })
}

// zigTranslator drives `zig cc` / `zig c++` / `zig ar` (spec.md §6 "Zig
// (zig cc, zig c++, zig ar)"). Zig's cc/c++ subcommands accept the same
// GNU/clang flag dialect clangTranslator already produces; the only
// difference is the executable is a subcommand of the single `zig`
// binary rather than a standalone compiler, so this translator delegates
// entirely to clangTranslator and rewrites argv[0] into the `zig <verb>`
// form.
type zigTranslator struct{}

func (zigTranslator) Family() model.Family { return model.FamilyZig }

func (t zigTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Compile(req)
	if err != nil {
		return inv, diags, err
	}
	cxx := req.Language == model.LangCxx || req.Language == model.LangObjCxx
	return rewriteAsZigSubcommand(inv, zigVerb(cxx)), diags, nil
}

func (t zigTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Link(req)
	if err != nil {
		return inv, diags, err
	}
	// Link's object kind doesn't tell us C vs C++; zig's cc and c++
	// subcommands both link correctly for either, so default to c++
	// which accepts either object kind interchangeably.
	return rewriteAsZigSubcommand(inv, "c++"), diags, nil
}

func (t zigTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	argv := []string{"zig", "ar", "rcs", req.Output}
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, req.Objects...)
	return toolchain.Invocation{Argv: argv, Executable: "zig"}, nil, nil
}

func (zigTranslator) VersionProbe(tc *model.Toolchain) []string {
	return []string{"zig", "version"}
}

func zigVerb(cxx bool) string {
	if cxx {
		return "c++"
	}
	return "cc"
}

// rewriteAsZigSubcommand replaces clangTranslator's argv[0] (a standalone
// compiler path) with the two-token `zig <verb>` invocation, since zig is
// always invoked as a subcommand rather than a standalone executable.
func rewriteAsZigSubcommand(inv toolchain.Invocation, verb string) toolchain.Invocation {
	if len(inv.Argv) == 0 {
		return toolchain.Invocation{Argv: []string{"zig", verb}, Executable: "zig"}
	}
	argv := make([]string, 0, len(inv.Argv)+1)
	argv = append(argv, "zig", verb)
	argv = append(argv, inv.Argv[1:]...)
	inv.Argv = argv
	inv.Executable = "zig"
	return inv
}
