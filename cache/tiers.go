package cache

import (
	"os"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/makedeps"
)

// ObjectCheck bundles the inputs CheckObject needs beyond the object and
// source paths: where to find the dependency sidecar the compiler wrote
// on the prior successful build, whether it is MSVC's JSON dialect, and
// the freshly recomputed identity signature to compare against the
// stored one.
type ObjectCheck struct {
	ObjectPath  string
	SourcePath  string
	DepfilePath string
	MSVCDepfile bool
	Signature   string
}

// CheckObject applies spec.md §4.4's three tiers in order, short-
// circuiting on the first miss (cheapest check first: a single stat,
// then N stats from the depfile, then a sidecar read). A hit means the
// object can be reused without invoking the compiler.
func CheckObject(c ObjectCheck) (hit bool, err error) {
	objInfo, err := os.Stat(c.ObjectPath)
	if err != nil {
		return false, nil // Tier 1: object missing
	}

	srcInfo, err := os.Stat(c.SourcePath)
	if err != nil {
		return false, err
	}
	if srcInfo.ModTime().After(objInfo.ModTime()) {
		return false, nil // Tier 1: source newer than object
	}

	deps, ok, err := readDepfile(c.DepfilePath, c.MSVCDepfile)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil // Tier 2: no recorded header set, can't trust the object
	}
	for _, input := range deps.Inputs {
		hInfo, err := os.Stat(input)
		if err != nil {
			// A previously-included header that's now missing/moved
			// invalidates the object; treat the stat failure as a miss,
			// not a hard error, so a deleted header just triggers a
			// recompile rather than aborting the build.
			return false, nil
		}
		if hInfo.ModTime().After(objInfo.ModTime()) {
			return false, nil // Tier 2: header changed since last compile
		}
	}

	stored, ok := ReadSignatureSidecar(c.ObjectPath)
	if !ok || stored != c.Signature {
		return false, nil // Tier 3: flags/compiler/environment changed
	}

	return true, nil
}

func readDepfile(path string, msvc bool) (makedeps.Deps, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return makedeps.Deps{}, false, nil
	}
	if msvc {
		deps, err := makedeps.ParseSourceDependencies(path, data)
		if err != nil {
			return makedeps.Deps{}, false, err
		}
		return deps, true, nil
	}
	deps, err := makedeps.Parse(path, strings.NewReader(string(data)))
	if err != nil {
		return makedeps.Deps{}, false, err
	}
	return deps, true, nil
}

// Commit records a successful compile's cache artifacts: the identity
// signature sidecar. The dependency-file sidecar itself was already
// written by the compiler (the Toolchain translator requested it via
// -MD -MF or /sourceDependencies); Commit only owns the signature half
// of the contract.
func Commit(objPath, signature string) error {
	return WriteSignatureSidecar(objPath, signature)
}
