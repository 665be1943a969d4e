package makedeps

import (
	"encoding/json"
	"fmt"
)

// sourceDependencies mirrors the subset of cl.exe's /sourceDependencies
// JSON schema (Version, Data.Source, Data.Includes) that this engine
// needs; cl.exe's schema carries additional fields (ImportedModules,
// ImportedHeaderUnits, PCH) the Tier 2 cache signature does not consult.
type sourceDependencies struct {
	Version string `json:"Version"`
	Data    struct {
		Source   string   `json:"Source"`
		Includes []string `json:"Includes"`
	} `json:"Data"`
}

// ParseSourceDependencies converts cl.exe's /sourceDependencies JSON
// output into the same Deps shape Parse produces from a GNU-style .d
// file, letting the cache's Tier 2 header-dependency check treat both
// formats identically (msvcTranslator.Compile requests this file instead
// of a Make depfile, since cl.exe has no -MD/-MF equivalent).
func ParseSourceDependencies(filename string, data []byte) (Deps, error) {
	var sd sourceDependencies
	if err := json.Unmarshal(data, &sd); err != nil {
		return Deps{}, fmt.Errorf("%s: %w", filename, err)
	}
	return Deps{Output: sd.Data.Source, Inputs: sd.Data.Includes}, nil
}
