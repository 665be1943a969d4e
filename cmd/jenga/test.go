package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/scheduler"
)

func newTestCmd() *cobra.Command {
	var noBuild bool
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Build and run every test-suite project, propagating their exit codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			ws, err := loadWorkspace(flags.workspacePath, flags.registryPath)
			if err != nil {
				return jengaerr.Configuration("%s", err)
			}

			if !noBuild {
				if err := runBuild(cmd, false, false); err != nil {
					return err
				}
			}

			bctx := resolveContext(ws, flags.action)

			var failed []string
			for _, p := range ws.Projects {
				if p.Kind != model.TestSuite {
					continue
				}
				if p.TestOptions == nil || p.TestOptions.RunnerCommand == "" {
					continue
				}

				expander := model.NewExpander(ws, bctx, p, func(format string, a ...any) {
					log.WithField("project", p.Name).Debugf(format, a...)
				})
				command := expander.Expand(p.TestOptions.RunnerCommand)
				dir := filepath.Join(ws.Root, p.Location)

				log.Infof("test %s: %s", p.Name, command)
				if err := scheduler.RunShellCommand(cmd.Context(), dir, command); err != nil {
					log.WithField("project", p.Name).Errorf("test failed: %v", err)
					failed = append(failed, p.Name)
				}
			}

			if len(failed) > 0 {
				return jengaerr.ToolInvocation(failed[0], "", nil, "", errTestsFailed(failed))
			}
			log.Info("all test-suite projects passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "skip the build step and run the existing test binaries as-is")
	return cmd
}

type errTestsFailed []string

func (e errTestsFailed) Error() string {
	s := "test-suite projects failed:"
	for _, name := range e {
		s += " " + name
	}
	return s
}
