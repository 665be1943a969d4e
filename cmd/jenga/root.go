// Command jenga is the CLI entry point for the build engine (spec.md §6):
// a cobra command tree over the scheduler/resolver/pkgpackage packages.
// Grounded in the teacher's `cmd/soong_build` top-level driver shape and
// the cobra command-tree conventions of this corpus's `M0Rf30-yap` and
// `eslerm-melange2` CLIs.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
	"github.com/RihenUniverse/Jenga-sub001/jengalog"
	"github.com/RihenUniverse/Jenga-sub001/model"
)

// globalFlags holds the PersistentFlags shared by every verb.
type globalFlags struct {
	workspacePath string
	registryPath  string
	configuration string
	platform      string
	jobs          string
	noCache       bool
	verbose       bool
	action        string
	options       []string
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jenga",
		Short:         "Declarative multi-platform native-code build orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.workspacePath, "workspace", "jenga.json", "path to the workspace JSON file")
	root.PersistentFlags().StringVar(&flags.registryPath, "registry", "", "path to a toolchain registry JSON file (optional)")
	root.PersistentFlags().StringVar(&flags.configuration, "config", "", "build configuration name (e.g. Debug, Release); defaults to the workspace's first declared configuration")
	root.PersistentFlags().StringVar(&flags.platform, "platform", "", "target platform as OS-ARCH[-ENV]; defaults to the workspace's first declared OS/arch")
	root.PersistentFlags().StringVar(&flags.jobs, "jobs", "auto", "parallel compile job count, or \"auto\" for max(1, cpu_count-1)")
	root.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "ignore the on-disk cache and recompile every unit")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "emit debug-level logs and full tool argv on failure")
	root.PersistentFlags().StringVar(&flags.action, "action", "", "free-form action tag evaluated by filter-block predicates (e.g. action:package)")
	root.PersistentFlags().StringArrayVar(&flags.options, "option", nil, "KEY=VALUE custom workspace option; repeatable")

	root.AddCommand(newBuildCmd(), newRebuildCmd(), newCleanCmd(), newRunCmd(), newTestCmd(), newInfoCmd())
	return root
}

// parseJobs converts the --jobs flag's "N" or "auto" spelling into the
// scheduler.Options.Jobs convention (0 = auto).
func parseJobs(s string) (int, error) {
	if s == "" || strings.EqualFold(s, "auto") {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("--jobs: %q is neither a number nor \"auto\"", s)
	}
	return n, nil
}

// parseOptions turns a repeated --option KEY=VALUE slice into a map; a
// bare option with no "=" is recorded with an empty value, matching
// buildctx.Context.Options's documented existence-test semantics.
func parseOptions(raw []string) map[string]string {
	out := map[string]string{}
	for _, o := range raw {
		k, v, _ := strings.Cut(o, "=")
		out[k] = v
	}
	return out
}

// resolveContext builds the buildctx.Context for this invocation, falling
// back to the workspace's first declared configuration/platform when the
// corresponding flag was left empty.
func resolveContext(ws *model.Workspace, action string) buildctx.Context {
	cfg := flags.configuration
	if cfg == "" && len(ws.Configurations) > 0 {
		cfg = ws.Configurations[0]
	}
	var platform buildctx.Triple
	if flags.platform != "" {
		platform = buildctx.ParseTriple(flags.platform)
	} else {
		if len(ws.TargetOS) > 0 {
			platform.OS = ws.TargetOS[0]
		}
		if len(ws.TargetArch) > 0 {
			platform.Arch = ws.TargetArch[0]
		}
	}
	return buildctx.Context{
		Configuration: cfg,
		Platform:      platform,
		Action:        action,
		Verbose:       flags.verbose,
		NoCache:       flags.noCache,
		Options:       parseOptions(flags.options),
	}
}

func newLogger() *logrus.Logger {
	return jengalog.New(flags.verbose)
}
