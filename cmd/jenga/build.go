package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/jengalog"
	"github.com/RihenUniverse/Jenga-sub001/resolver"
	"github.com/RihenUniverse/Jenga-sub001/scheduler"
)

func newBuildCmd() *cobra.Command {
	var compdb bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Resolve and build the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, compdb, false)
		},
	}
	cmd.Flags().BoolVar(&compdb, "export-compile-commands", false, "also write compile_commands.json at the workspace root")
	return cmd
}

func newRebuildCmd() *cobra.Command {
	var compdb bool
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Clean the workspace's per-configuration directories, then build",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, compdb, true)
		},
	}
	cmd.Flags().BoolVar(&compdb, "export-compile-commands", false, "also write compile_commands.json at the workspace root")
	return cmd
}

// runBuild is shared by "build" and "rebuild"; rebuild additionally runs
// Clean first, mirroring spec.md §6's rebuild = clean-then-build verb.
func runBuild(cmd *cobra.Command, compdb, clean bool) error {
	log := newLogger()

	ws, err := loadWorkspace(flags.workspacePath, flags.registryPath)
	if err != nil {
		return jengaerr.Configuration("%s", err)
	}

	if clean {
		if err := scheduler.Clean(ws, scheduler.CleanOptions{}); err != nil {
			return jengaerr.IO("", err)
		}
	}

	bctx := resolveContext(ws, flags.action)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	jobs, err := parseJobs(flags.jobs)
	if err != nil {
		return jengaerr.Configuration("%s", err)
	}

	opts := scheduler.Options{
		Jobs:                  jobs,
		NoCache:               flags.noCache,
		Verbose:               flags.verbose,
		Action:                flags.action,
		CompileCommandsExport: compdb,
	}

	result, err := scheduler.Run(ctx, ws, bctx, resolver.OSFileSystem{}, opts)
	if err != nil {
		return err
	}

	for _, pr := range result.Projects {
		name := "<unresolved>"
		if pr.Project != nil {
			name = pr.Project.Project.Name
		}
		for _, u := range pr.Units {
			entry := jengalog.WithArgv(log, name, u.Argv)
			switch u.Status {
			case scheduler.UnitCompiled:
				entry.Debugf("compiled %s", u.Source)
			case scheduler.UnitCached:
				entry.Debugf("cached %s", u.Source)
			case scheduler.UnitFailed:
				entry.WithField("stderr", u.Stderr).Errorf("failed %s", u.Source)
			}
		}
		if pr.Skipped {
			log.WithField("project", name).Warn("skipped")
		}
	}

	if result.Failed() {
		for _, e := range result.Errors {
			log.Error(e.Error())
		}
		return result.Errors[0]
	}

	log.Infof("build %s: run %s complete", ws.Name, result.RunID)
	return nil
}
