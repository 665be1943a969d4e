package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RihenUniverse/Jenga-sub001/jengaerr"
	"github.com/RihenUniverse/Jenga-sub001/resolver"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Emit the resolved workspace model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(flags.workspacePath, flags.registryPath)
			if err != nil {
				return jengaerr.Configuration("%s", err)
			}

			bctx := resolveContext(ws, flags.action)

			fmt.Printf("workspace %q at %s\n", ws.Name, ws.Root)
			fmt.Printf("configurations: %v\n", ws.Configurations)
			fmt.Printf("target os: %v  target arch: %v\n", ws.TargetOS, ws.TargetArch)
			fmt.Printf("active context: config=%s platform=%s action=%s\n", bctx.Configuration, bctx.Platform.String(), bctx.Action)
			fmt.Println()

			for _, p := range ws.Projects {
				fmt.Printf("project %-20s kind=%-12s language=%s\n", p.Name, p.Kind, p.Language)
				if !flags.verbose {
					continue
				}
				rp, warnings, err := resolver.Resolve(ws, p, bctx, resolver.OSFileSystem{})
				if err != nil {
					fmt.Printf("  resolution error: %v\n", err)
					continue
				}
				fmt.Printf("  sources:    %d file(s)\n", len(rp.Sources))
				fmt.Printf("  obj dir:    %s\n", rp.ObjDir)
				fmt.Printf("  target:     %s/%s\n", rp.TargetDir, rp.TargetName)
				fmt.Printf("  toolchain:  %s (%s)\n", rp.Toolchain.Name, rp.Toolchain.Family)
				for _, w := range warnings {
					fmt.Printf("  warning:    %s\n", w)
				}
			}
			return nil
		},
	}
	return cmd
}
