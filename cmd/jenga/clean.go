package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/scheduler"
)

func newCleanCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove per-configuration object/target directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			ws, err := loadWorkspace(flags.workspacePath, flags.registryPath)
			if err != nil {
				return jengaerr.Configuration("%s", err)
			}

			opts := scheduler.CleanOptions{All: all}
			if all {
				opts.CacheDir = filepath.Join(ws.Root, ".jenga-cache")
			}
			if err := scheduler.Clean(ws, opts); err != nil {
				return jengaerr.IO("", err)
			}
			log.Infof("clean %s: done", ws.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also remove the cache directory")
	return cmd
}
