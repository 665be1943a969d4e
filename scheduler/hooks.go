package scheduler

import (
	"context"
	"os"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/model"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runHooks runs every hook's Command, in declaration order, synchronously,
// inheriting the process environment, with dir as working directory (spec.md §4.5
// steps 1, 4, 7: "run every ... command in declaration order, synchronously,
// inheriting environment"). The first non-zero exit aborts the remaining
// hooks and the caller treats it as the project's failure.
//
// Commands are POSIX-shell command lines, evaluated with mvdan.cc/sh
// rather than shelled out to /bin/sh so the same hook syntax runs on
// Windows hosts, which have no POSIX shell of their own.
func runHooks(ctx context.Context, projectName, dir string, hooks []model.Hook) error {
	for _, h := range hooks {
		if h.Command == "" {
			continue
		}
		if err := runShellCommand(ctx, dir, h.Command); err != nil {
			return jengaerr.ToolInvocation(projectName, "", []string{"sh", "-c", h.Command}, err.Error(), err)
		}
	}
	return nil
}

func runShellCommand(ctx context.Context, dir, command string) error {
	return RunShellCommand(ctx, dir, command)
}

// RunShellCommand evaluates command as a POSIX shell command line with dir
// as its working directory, inheriting stdio. Exported so the CLI's "test"
// verb can run a TestSuite project's RunnerCommand template through the
// same mvdan.cc/sh interpreter as build hooks, rather than a second
// shell-execution path.
func RunShellCommand(ctx context.Context, dir, command string) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return err
	}
	runner, err := interp.New(
		interp.StdIO(os.Stdin, os.Stdout, os.Stderr),
		interp.Dir(dir),
	)
	if err != nil {
		return err
	}
	return runner.Run(ctx, file)
}
