package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RihenUniverse/Jenga-sub001/cache"
	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/pkgpackage"
	"github.com/RihenUniverse/Jenga-sub001/resolver"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
	_ "github.com/RihenUniverse/Jenga-sub001/toolchain/families"
)

var versionMemo = cache.NewVersionMemo()

// moduleInterfaceExts are the source extensions spec.md §4.5 step 2 calls
// "module-interface files": C++20 module interface units, compiled
// sequentially and before any translation unit that might import them.
var moduleInterfaceExts = map[string]bool{
	".cppm": true,
	".ixx":  true,
	".mpp":  true,
}

func isModuleInterface(source string) bool {
	return moduleInterfaceExts[strings.ToLower(filepath.Ext(source))]
}

// Run builds ws in dependency order under ctx, implementing the seven-step
// pipeline of spec.md §4.5 for every project. It is not itself
// interruption-aware beyond honoring ctx.Done(); cmd/jenga wires SIGINT
// into a cancellable context (spec.md §5 "If the user signals
// interruption... SIGINT/CTRL-BREAK propagated").
func Run(pctx context.Context, ws *model.Workspace, bctx buildctx.Context, fs resolver.GlobFS, opts Options) (*BuildResult, error) {
	order, err := resolver.BuildOrder(ws)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	result := &BuildResult{RunID: runID}
	linkedOutputs := map[string]string{} // project name -> final target path; a project is skipped unless every dependson entry is here

	var compdbEntries []compdbEntry

	for _, p := range order {
		select {
		case <-pctx.Done():
			result.Projects = append(result.Projects, ProjectResult{Skipped: true, Err: jengaerr.Cancelled(p.Name)})
			continue
		default:
		}

		depFailed := false
		for _, dep := range p.DependsOn {
			if _, ok := linkedOutputs[dep]; !ok {
				depFailed = true
				break
			}
		}
		if depFailed {
			pr := ProjectResult{Skipped: true, Err: jengaerr.Resolution(p.Name, "skipped: a dependency failed or was skipped")}
			result.Projects = append(result.Projects, pr)
			continue
		}

		rp, warnings, err := resolver.Resolve(ws, p, bctx, fs)
		if err != nil {
			je := asJengaErr(p.Name, err)
			result.Errors = append(result.Errors, je)
			result.Projects = append(result.Projects, ProjectResult{Skipped: true, Err: je})
			continue
		}
		for _, w := range warnings {
			_ = w // discarded: neither ProjectResult nor BuildResult carries resolution warnings
		}

		pr, entries, err := buildProject(pctx, ws, rp, opts)
		result.Projects = append(result.Projects, pr)
		compdbEntries = append(compdbEntries, entries...)
		if err != nil {
			result.Errors = append(result.Errors, asJengaErr(p.Name, err))
		}
		if pr.Failed() {
			result.Errors = append(result.Errors, asJengaErr(p.Name, fmt.Errorf("project %q failed", p.Name)))
			continue
		}
		linkedOutputs[p.Name] = finalTargetPath(rp)
	}

	if len(compdbEntries) > 0 {
		sort.Slice(compdbEntries, func(i, j int) bool { return compdbEntries[i].File < compdbEntries[j].File })
		if err := writeCompileCommands(filepath.Join(ws.Root, "compile_commands.json"), compdbEntries); err != nil {
			result.Errors = append(result.Errors, jengaerr.New(jengaerr.KindIO, "", err))
		}
	}

	return result, nil
}

func asJengaErr(project string, err error) *jengaerr.Error {
	if je, ok := err.(*jengaerr.Error); ok {
		return je
	}
	return jengaerr.New(jengaerr.KindConfiguration, project, err)
}

// buildProject runs the seven steps of spec.md §4.5 for one resolved
// project and returns its outcome plus any compile_commands.json entries
// it produced.
func buildProject(pctx context.Context, ws *model.Workspace, rp *resolver.ResolvedProject, opts Options) (ProjectResult, []compdbEntry, error) {
	pr := ProjectResult{Project: rp}
	projectDir := filepath.Join(ws.Root, rp.Project.Location)
	expander := model.NewExpander(ws, rp.Context, rp.Project, nil)
	expandHooks := func(hooks []model.Hook) []model.Hook {
		out := make([]model.Hook, len(hooks))
		for i, h := range hooks {
			out[i].Command = expander.Expand(h.Command)
		}
		return out
	}

	if err := runHooks(pctx, rp.Project.Name, projectDir, expandHooks(rp.Project.Hooks.PreBuild)); err != nil {
		pr.Err = err
		return pr, nil, err
	}

	translator, err := toolchain.For(rp.Toolchain.Family)
	if err != nil {
		pr.Err = jengaerr.ToolNotFound(rp.Project.Name, rp.Toolchain.Name)
		return pr, nil, pr.Err
	}

	objDir := rp.ObjDir
	if !filepath.IsAbs(objDir) {
		objDir = filepath.Join(projectDir, objDir)
	}
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		pr.Err = jengaerr.IO(rp.Project.Name, err)
		return pr, nil, pr.Err
	}

	compilerVersion, verr := probeVersion(translator, rp.Toolchain)
	if verr != nil {
		pr.Err = jengaerr.ToolNotFound(rp.Project.Name, rp.Toolchain.Name)
		return pr, nil, pr.Err
	}

	var modules, rest []string
	for _, src := range rp.Sources {
		if isModuleInterface(src) {
			modules = append(modules, src)
		} else {
			rest = append(rest, src)
		}
	}

	units := make([]UnitResult, len(rp.Sources))
	argvByIndex := make([][]string, len(rp.Sources))
	sourceIndex := make(map[string]int, len(rp.Sources))
	for i, s := range rp.Sources {
		sourceIndex[s] = i
	}

	cancelled := false

	// Step 2: module interfaces, sequential, declared source order.
	for _, src := range modules {
		if pctx.Err() != nil {
			cancelled = true
			break
		}
		i := sourceIndex[src]
		u, argv := compileOne(pctx, rp, translator, compilerVersion, objDir, projectDir, src, opts, true)
		units[i] = u
		argvByIndex[i] = argv
		if u.Status == UnitFailed {
			cancelled = true
			break
		}
	}

	// Step 3: remaining translation units, bounded worker pool.
	if !cancelled {
		poolCtx, cancel := context.WithCancel(pctx)
		failed := false
		jobs := jobCount(opts.Jobs)
		_ = runPool(poolCtx, jobs, len(rest), func(wctx context.Context, idx int) error {
			if wctx.Err() != nil {
				return wctx.Err()
			}
			src := rest[idx]
			i := sourceIndex[src]
			u, argv := compileOne(wctx, rp, translator, compilerVersion, objDir, projectDir, src, opts, false)
			units[i] = u
			argvByIndex[i] = argv
			if u.Status == UnitFailed {
				failed = true
				cancel() // spec.md §4.5 "signal cancellation to the pool"
				return fmt.Errorf("unit failed: %s", src)
			}
			return nil
		})
		cancel()
		cancelled = failed
	}

	pr.Units = units
	if cancelled {
		pr.Err = jengaerr.ToolInvocation(rp.Project.Name, "", nil, "", fmt.Errorf("one or more compile units failed"))
		return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), pr.Err
	}

	// Step 4: prelink hooks.
	if err := runHooks(pctx, rp.Project.Name, projectDir, expandHooks(rp.Project.Hooks.PreLink)); err != nil {
		pr.Err = err
		return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), err
	}

	// Step 5: link.
	targetDir := rp.TargetDir
	if !filepath.IsAbs(targetDir) {
		targetDir = filepath.Join(projectDir, targetDir)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		pr.Err = jengaerr.IO(rp.Project.Name, err)
		return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), pr.Err
	}

	objects := make([]string, 0, len(rp.Sources))
	for _, src := range rp.Sources {
		objects = append(objects, objectPath(objDir, projectDir, src))
	}

	linkArgv, linkErr := link(pctx, rp, translator, objects, targetDir)
	pr.LinkArgv = linkArgv
	pr.LinkFinished = time.Now()
	if linkErr != nil {
		pr.LinkErr = linkErr
		return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), linkErr
	}

	// Step 6: platform packaging.
	if err := packageProject(rp, targetDir); err != nil {
		// Packaging failures are reported but do not retroactively fail
		// the link; the project's primary artifact already exists.
		pr.Err = err
	}

	// Step 7: postlink / postbuild hooks.
	if err := runHooks(pctx, rp.Project.Name, projectDir, expandHooks(rp.Project.Hooks.PostLink)); err != nil {
		pr.Err = err
		return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), err
	}
	if err := runHooks(pctx, rp.Project.Name, projectDir, expandHooks(rp.Project.Hooks.PostBuild)); err != nil {
		pr.Err = err
		return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), err
	}

	return pr, entriesFor(rp, projectDir, units, argvByIndex, opts), nil
}

func probeVersion(t toolchain.Translator, tc *model.Toolchain) (string, error) {
	argv := t.VersionProbe(tc)
	if len(argv) == 0 {
		return "", nil
	}
	return versionMemo.Get(argv[0], func() (string, error) {
		out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	})
}

func objectPath(objDir, projectDir, source string) string {
	rel, err := filepath.Rel(projectDir, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(source)
	}
	rel = strings.ReplaceAll(rel, string(filepath.Separator), "_")
	return filepath.Join(objDir, rel+".o")
}

func depfilePath(objPath string, msvc bool) string {
	if msvc {
		return objPath + ".json"
	}
	return objPath + ".d"
}

// compileOne resolves one translation unit against the cache, and on a
// miss invokes the compiler, writing the object atomically (temp path,
// then rename) per spec.md §8 property #6.
func compileOne(ctx context.Context, rp *resolver.ResolvedProject, t toolchain.Translator, compilerVersion, objDir, projectDir string, source string, opts Options, isModule bool) (UnitResult, []string) {
	started := time.Now()
	objPath := objectPath(objDir, projectDir, source)
	msvc := rp.Toolchain.Family == model.FamilyMSVC
	depPath := depfilePath(objPath, msvc)

	sig := cache.Digest(cache.SignatureInput{
		CompilerPath:    compilerPath(rp, t),
		CompilerVersion: compilerVersion,
		Flags:           compileFlagsFingerprint(rp, isModule),
		IncludeDirs:     rp.IncludeDirs,
		Defines:         rp.Defines,
		Configuration:   rp.Context.Configuration,
		Platform:        rp.Context.Platform.String(),
		ToolchainFlags:  append(append([]string{}, rp.Toolchain.BaseCFlags...), rp.Toolchain.BaseCxxFlags...),
	})

	if !opts.NoCache {
		hit, err := cache.CheckObject(cache.ObjectCheck{
			ObjectPath:  objPath,
			SourcePath:  source,
			DepfilePath: depPath,
			MSVCDepfile: msvc,
			Signature:   sig,
		})
		if err == nil && hit {
			return UnitResult{Source: source, Status: UnitCached, Started: started, Finished: time.Now()}, nil
		}
	}

	if ctx.Err() != nil {
		return UnitResult{Source: source, Status: UnitCancelled, Started: started, Finished: time.Now()}, nil
	}

	tmpObj := objPath + ".tmp"
	req := toolchain.CompileRequest{
		Toolchain:             rp.Toolchain,
		Language:              rp.Project.Language,
		Dialect:               rp.Project.Dialect,
		Source:                source,
		OutputObj:             tmpObj,
		DepfilePath:           depPath,
		IncludeDirs:           rp.IncludeDirs,
		Defines:               rp.Defines,
		Optimize:              rp.Optimize,
		DebugSymbols:          rp.DebugSymbols,
		Warnings:              rp.Warnings,
		Sanitizers:            rp.Sanitizers,
		IsModuleInterface:     isModule,
		CompileCommandsExport: opts.CompileCommandsExport,
	}

	inv, _, err := t.Compile(req)
	if err != nil {
		return UnitResult{Source: source, Status: UnitFailed, Err: err, Started: started, Finished: time.Now()}, inv.Argv
	}

	if ctx.Err() != nil {
		return UnitResult{Source: source, Status: UnitCancelled, Started: started, Finished: time.Now()}, inv.Argv
	}

	stdout, stderr, err := runProcess(ctx, inv)
	if err != nil {
		return UnitResult{Source: source, Status: UnitFailed, Stdout: stdout, Stderr: stderr, Err: err, Argv: inv.Argv, Started: started, Finished: time.Now()}, inv.Argv
	}

	if err := os.Rename(tmpObj, objPath); err != nil {
		return UnitResult{Source: source, Status: UnitFailed, Err: err, Argv: inv.Argv, Started: started, Finished: time.Now()}, inv.Argv
	}
	if err := cache.Commit(objPath, sig); err != nil {
		return UnitResult{Source: source, Status: UnitFailed, Err: err, Argv: inv.Argv, Started: started, Finished: time.Now()}, inv.Argv
	}

	return UnitResult{Source: source, Status: UnitCompiled, Stdout: stdout, Stderr: stderr, Argv: inv.Argv, Started: started, Finished: time.Now()}, inv.Argv
}

// compileFlagsFingerprint captures every compile setting besides defines
// and include dirs (already their own SignatureInput fields) so toggling
// optimization, debug symbols, warnings, or sanitizers also invalidates
// Tier 3 (spec.md §8 property #2), independent of source mtime.
func compileFlagsFingerprint(rp *resolver.ResolvedProject, isModule bool) []string {
	return []string{
		fmt.Sprintf("optimize=%d", rp.Optimize),
		fmt.Sprintf("warnings=%d", rp.Warnings),
		fmt.Sprintf("debugsymbols=%t", rp.DebugSymbols),
		fmt.Sprintf("module=%t", isModule),
		"sanitizers=" + strings.Join(rp.Sanitizers, ","),
	}
}

func compilerPath(rp *resolver.ResolvedProject, t toolchain.Translator) string {
	if rp.Project.Language == model.LangCxx || rp.Project.Language == model.LangObjCxx {
		return rp.Toolchain.CxxCompiler
	}
	return rp.Toolchain.CCompiler
}

func link(ctx context.Context, rp *resolver.ResolvedProject, t toolchain.Translator, objects []string, targetDir string) ([]string, error) {
	if ctx.Err() != nil {
		return nil, jengaerr.Cancelled(rp.Project.Name)
	}
	finalPath := filepath.Join(targetDir, rp.TargetName)
	tmpPath := finalPath + ".tmp"

	req := toolchain.LinkRequest{
		Toolchain:    rp.Toolchain,
		Kind:         rp.Project.Kind,
		Objects:      objects,
		LibDirs:      rp.LibDirs,
		Libs:         rp.Links,
		Output:       tmpPath,
		DebugSymbols: rp.DebugSymbols,
	}

	inv, _, err := t.Link(req)
	if err != nil {
		return nil, jengaerr.ToolInvocation(rp.Project.Name, "", inv.Argv, "", err)
	}

	_, stderr, err := runProcess(ctx, inv)
	if err != nil {
		return inv.Argv, jengaerr.ToolInvocation(rp.Project.Name, "", inv.Argv, stderr, err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return inv.Argv, jengaerr.IO(rp.Project.Name, err)
	}
	return inv.Argv, nil
}

func finalTargetPath(rp *resolver.ResolvedProject) string {
	return filepath.Join(rp.TargetDir, rp.TargetName)
}

// packageProject invokes the platform-specific post-link packager named by
// the project's declared platform metadata bag, per spec.md §4.5 step 6.
// A project with no matching metadata is left unpackaged; this is not an
// error since packaging is opt-in per project.
func packageProject(rp *resolver.ResolvedProject, targetDir string) error {
	finalPath := filepath.Join(targetDir, rp.TargetName)

	if len(rp.Project.Android) > 0 && rp.Project.Kind == model.SharedLib {
		abi := metaOr2(rp.Project.Android, "abi", rp.Context.Platform.Arch)
		_, err := pkgpackage.AssembleAPK(rp.Project.Name, map[string]string{abi: finalPath}, rp.Project.Android, targetDir)
		return err
	}
	if len(rp.Project.Emscripten) > 0 {
		_, err := pkgpackage.BundleEmscripten(rp.Project.Name, targetDir, rp.Project.Emscripten)
		return err
	}
	if len(rp.Project.IOS) > 0 && rp.Context.Platform.OS == "darwin" && (rp.Project.Kind == model.ConsoleApp || rp.Project.Kind == model.WindowedApp) {
		_, err := pkgpackage.AssembleAppBundle(rp.Project.Name, finalPath, targetDir, rp.Project.IOS)
		return err
	}
	return nil
}

func metaOr2(meta model.PlatformMeta, key, fallback string) string {
	if v, ok := meta[key]; ok && v != "" {
		return v
	}
	return fallback
}

func runProcess(ctx context.Context, inv toolchain.Invocation) (stdout, stderr string, err error) {
	if len(inv.Argv) == 0 {
		return "", "", fmt.Errorf("empty invocation argv")
	}
	cmd := exec.CommandContext(ctx, inv.Executable, inv.Argv[1:]...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func entriesFor(rp *resolver.ResolvedProject, projectDir string, units []UnitResult, argvByIndex [][]string, opts Options) []compdbEntry {
	if !opts.CompileCommandsExport && !rp.Project.CompileCommandsExport {
		return nil
	}
	var out []compdbEntry
	for i, u := range units {
		if u.Source == "" || argvByIndex[i] == nil {
			continue
		}
		out = append(out, compdbEntry{
			Directory: projectDir,
			Arguments: argvByIndex[i],
			File:      u.Source,
		})
	}
	return out
}
