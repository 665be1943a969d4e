// Package buildctx defines the build-context value shared by the model,
// resolver, toolchain, cache, and scheduler packages: the tuple a filter
// predicate and a resolution pass are evaluated against.
package buildctx

import (
	"sort"
	"strings"
)

// Triple identifies a target operating system, architecture, and optional
// environment (e.g. "android-arm64-", "windows-amd64-msvc").
type Triple struct {
	OS   string
	Arch string
	Env  string
}

func (t Triple) String() string {
	if t.Env == "" {
		return t.OS + "-" + t.Arch
	}
	return t.OS + "-" + t.Arch + "-" + t.Env
}

// ParseTriple parses "os-arch[-env]" as accepted by --platform.
func ParseTriple(s string) Triple {
	parts := strings.SplitN(s, "-", 3)
	t := Triple{}
	if len(parts) > 0 {
		t.OS = parts[0]
	}
	if len(parts) > 1 {
		t.Arch = parts[1]
	}
	if len(parts) > 2 {
		t.Env = parts[2]
	}
	return t
}

// Context is the immutable tuple (configuration, platform, options, action)
// that filter predicates and resolution are evaluated against. Its Options
// map makes it unusable with ==; Key gives a string form instead. Filter
// evaluation against a Context is not memoized: only parsed predicates are
// cached, keyed by predicate string (see model.ParsePredicate).
type Context struct {
	Configuration string
	Platform      Triple
	Action        string
	Verbose       bool
	NoCache       bool
	// Options holds user-declared custom option values; a bare option with
	// no "=" is recorded with an empty string value but is still present
	// in the map, which is what options:K (existence test) checks for.
	Options map[string]string
}

// Key returns a comparable, deterministic string usable as a map key.
func (c Context) Key() string {
	var b strings.Builder
	b.WriteString(c.Configuration)
	b.WriteByte('|')
	b.WriteString(c.Platform.String())
	b.WriteByte('|')
	b.WriteString(c.Action)
	if c.Verbose {
		b.WriteString("|v")
	}
	if c.NoCache {
		b.WriteString("|nc")
	}
	keys := make([]string, 0, len(c.Options))
	for k := range c.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(c.Options[k])
	}
	return b.String()
}
