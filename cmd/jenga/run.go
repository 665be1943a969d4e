package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/resolver"
)

func newRunCmd() *cobra.Command {
	var noBuild bool
	cmd := &cobra.Command{
		Use:   "run [PROJECT] [-- ARGS...]",
		Short: "Build (unless --no-build) and execute a console/windowed-app project's output",
		RunE: func(cmd *cobra.Command, args []string) error {
			var runArgs []string
			if idx := cmd.ArgsLenAtDash(); idx >= 0 {
				runArgs = args[idx:]
				args = args[:idx]
			}
			if len(args) > 1 {
				return jengaerr.Configuration("run: expected at most one PROJECT argument, got %v", args)
			}

			ws, err := loadWorkspace(flags.workspacePath, flags.registryPath)
			if err != nil {
				return jengaerr.Configuration("%s", err)
			}

			name := ws.StartupProject
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return jengaerr.Configuration("run: no PROJECT given and the workspace declares no startup project")
			}

			var target *model.Project
			for _, p := range ws.Projects {
				if p.Name == name {
					target = p
					break
				}
			}
			if target == nil {
				return jengaerr.Configuration("run: no project named %q", name)
			}

			if !noBuild {
				if err := runBuild(cmd, false, false); err != nil {
					return err
				}
			}

			bctx := resolveContext(ws, flags.action)
			rp, _, err := resolver.Resolve(ws, target, bctx, resolver.OSFileSystem{})
			if err != nil {
				return err
			}

			binPath := filepath.Join(rp.TargetDir, rp.TargetName)
			if !filepath.IsAbs(binPath) {
				binPath = filepath.Join(ws.Root, target.Location, binPath)
			}
			child := exec.CommandContext(cmd.Context(), binPath, runArgs...)
			child.Stdin = os.Stdin
			child.Stdout = os.Stdout
			child.Stderr = os.Stderr
			child.Dir = filepath.Dir(binPath)

			if err := child.Run(); err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					os.Exit(exitErr.ExitCode())
				}
				return jengaerr.ToolInvocation(name, "", child.Args, "", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "skip the build step and run the existing output as-is")
	return cmd
}
