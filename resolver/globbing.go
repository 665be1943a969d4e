package resolver

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RihenUniverse/Jenga-sub001/model"
)

// OSFileSystem is the production GlobFS backed by the real filesystem.
type OSFileSystem struct{}

// Glob matches pattern (which may use doublestar "**" for arbitrary
// directory depth and "*"/"?" within one path segment) against the real
// directory tree rooted at dir. Matching is case-sensitive on
// case-sensitive filesystems (doublestar matches literally, deferring to
// the OS), and hidden files (leading dot) are excluded unless the pattern
// explicitly names them — doublestar does not hide dotfiles by default, so
// that filtering is applied here (spec.md §4.1 "Glob expansion").
func (OSFileSystem) Glob(dir, pattern string) ([]string, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	patternNamesHidden := patternExplicitlyNamesDotfile(pattern)
	var out []string
	for _, m := range matches {
		if !patternNamesHidden && hasHiddenComponent(m) {
			continue
		}
		out = append(out, filepath.Join(dir, filepath.FromSlash(m)))
	}
	// Deterministic directory-listing order, alphabetical by byte
	// (spec.md §4.1 "The expansion is deterministic in directory-listing
	// order (alphabetical by byte)").
	sort.Strings(out)
	return out, nil
}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hasHiddenComponent(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func patternExplicitlyNamesDotfile(pattern string) bool {
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// expandSources resolves a project's source-file globs relative to
// projectDir: inclusion globs expanded in declaration order (each
// deduplicated against what's already matched), then every exclusion glob
// (a leading "!" pattern, or — equivalently here — an entry of
// excludeFiles) removes matches, applied after inclusion (spec.md §4.1).
func expandSources(fsys GlobFS, e *model.Expander, projectDir string, includes, excludes []string) ([]string, error) {
	seen := map[string]bool{}
	var ordered []string

	addGlob := func(raw string) error {
		pattern := e.Expand(raw)
		negate := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(pattern, "!")
		matches, err := fsys.Glob(projectDir, pattern)
		if err != nil {
			return err
		}
		if negate {
			for _, m := range matches {
				if seen[m] {
					delete(seen, m)
				}
			}
			// Rebuild ordered list without removed entries.
			filtered := ordered[:0:0]
			for _, o := range ordered {
				if seen[o] {
					filtered = append(filtered, o)
				}
			}
			ordered = filtered
			return nil
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				ordered = append(ordered, m)
			}
		}
		return nil
	}

	for _, inc := range includes {
		if err := addGlob(inc); err != nil {
			return nil, err
		}
	}
	for _, exc := range excludes {
		pattern := e.Expand(exc)
		matches, err := fsys.Glob(projectDir, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if seen[m] {
				delete(seen, m)
			}
		}
	}

	if excludes != nil {
		filtered := ordered[:0:0]
		for _, o := range ordered {
			if seen[o] {
				filtered = append(filtered, o)
			}
		}
		ordered = filtered
	}

	return ordered, nil
}

// IsRegularFile reports whether the entry at path is a plain file; used by
// the scheduler to reject a resolved source that turned out to be a
// directory (a malformed glob pattern can otherwise match one).
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().Type() == fs.FileMode(0)
}
