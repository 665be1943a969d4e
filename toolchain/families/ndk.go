package families

import (
	"fmt"

	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

func init() {
	toolchain.Register(model.FamilyAndroidNDK, func() toolchain.Translator { return ndkTranslator{} })
}

// ndkTranslator targets the Android NDK's prebuilt clang. It shares
// clang's flag dialect entirely but always threads --target=<clang
// triple> and --sysroot=<ndk sysroot> (Soong's cc/config/*_device.go
// device files bake the equivalent triple into per-arch toolchain
// structs; here it is carried explicitly on model.Toolchain.ClangTriple
// and Sysroot so one translator serves every NDK ABI).
type ndkTranslator struct{}

func (ndkTranslator) Family() model.Family { return model.FamilyAndroidNDK }

func (t ndkTranslator) Compile(req toolchain.CompileRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Compile(req)
	if err != nil {
		return inv, diags, err
	}
	inv.Argv = withTripleAndSysroot(inv.Argv, req.Toolchain, 1)
	return inv, diags, nil
}

func (t ndkTranslator) Link(req toolchain.LinkRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	inv, diags, err := clangTranslator{}.Link(req)
	if err != nil {
		return inv, diags, err
	}
	inv.Argv = withTripleAndSysroot(inv.Argv, req.Toolchain, 1)
	return inv, diags, nil
}

func (t ndkTranslator) Archive(req toolchain.ArchiveRequest) (toolchain.Invocation, []toolchain.Diagnostic, error) {
	ar := req.Toolchain.Archiver
	if ar == "" {
		return toolchain.Invocation{}, nil, fmt.Errorf("android-ndk: no archiver (llvm-ar) configured")
	}
	argv := []string{ar, "rcs", req.Output}
	argv = append(argv, req.ExtraFlags...)
	argv = append(argv, req.Objects...)
	return toolchain.Invocation{Argv: argv, Executable: ar}, nil, nil
}

func (ndkTranslator) VersionProbe(tc *model.Toolchain) []string {
	return clangTranslator{}.VersionProbe(tc)
}

// withTripleAndSysroot inserts --target/--sysroot right after the
// compiler/linker executable (position insertAt) so they apply uniformly
// regardless of which of Compile/Link built the rest of argv.
func withTripleAndSysroot(argv []string, tc *model.Toolchain, insertAt int) []string {
	var extra []string
	if tc.ClangTriple != "" {
		extra = append(extra, "--target="+tc.ClangTriple)
	}
	if tc.Sysroot != "" {
		extra = append(extra, "--sysroot="+tc.Sysroot)
	}
	if len(extra) == 0 {
		return argv
	}
	out := make([]string, 0, len(argv)+len(extra))
	out = append(out, argv[:insertAt]...)
	out = append(out, extra...)
	out = append(out, argv[insertAt:]...)
	return out
}
