package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RihenUniverse/Jenga-sub001/model"
	"github.com/RihenUniverse/Jenga-sub001/toolchain"
)

// loadWorkspace decodes a Workspace from a JSON file at path and freezes
// it, merging in the toolchain registry at registryPath (or, when that is
// empty, at the workspace's ToolchainRegistryPath, if set) with
// workspace-declared toolchains taking precedence (spec.md §6). The
// JSON schema mirrors model.Workspace field-for-field; the configuration
// script dialect itself is the out-of-scope front-end spec.md §1 and §9
// exclude from this engine.
func loadWorkspace(path, registryPath string) (*model.Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workspace file %s: %w", path, err)
	}

	var ws model.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing workspace file %s: %w", path, err)
	}

	if registryPath == "" {
		registryPath = ws.ToolchainRegistryPath
	}
	if registryPath != "" {
		reg, err := toolchain.LoadRegistry(registryPath)
		if err != nil {
			return nil, err
		}
		toolchain.MergeRegistry(&ws, reg)
	}

	if err := ws.Freeze(); err != nil {
		return nil, err
	}
	return &ws, nil
}
