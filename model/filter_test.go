package model

import (
	"testing"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
	"github.com/stretchr/testify/require"
)

func TestFilterPrecedenceAndAssociativity(t *testing.T) {
	// NOT > AND > OR, left-associative.
	ctx := buildctx.Context{Configuration: "Debug", Platform: buildctx.Triple{OS: "windows", Arch: "x64"}}

	cases := []struct {
		name string
		expr string
		want bool
	}{
		{"plain-match", "system:Windows", true},
		{"plain-mismatch", "system:Linux", false},
		{"not", "not system:Linux", true},
		{"and-true", "system:Windows and configurations:Debug", true},
		{"and-false", "system:Windows and configurations:Release", false},
		{"or-true", "system:Linux or configurations:Debug", true},
		{"not-and-or", "system:Linux or not configurations:Release and architecture:x64", true},
		{"parens", "(system:Linux or configurations:Debug) and architecture:x64", true},
		{"parens-false", "(system:Linux or configurations:Release) and architecture:x64", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := EvalPredicateString(c.expr, ctx)
			require.NoError(t, err)
			if got != c.want {
				t.Errorf("%q against %+v = %v, want %v", c.expr, ctx, got, c.want)
			}
		})
	}
}

func TestFilterOptionsClause(t *testing.T) {
	ctx := buildctx.Context{Options: map[string]string{"sdl3-root": "/opt/sdl3", "debug-overlay": ""}}

	cases := []struct {
		name string
		expr string
		want bool
	}{
		{"exists", "options:sdl3-root", true},
		{"exists-empty-value", "options:debug-overlay", true},
		{"not-exists", "options:missing", false},
		{"exact-match", "options:sdl3-root=/opt/sdl3", true},
		{"exact-mismatch", "options:sdl3-root=/opt/other", false},
		{"wildcard-nonempty", "options:sdl3-root=*", true},
		{"wildcard-empty-value-fails", "options:debug-overlay=*", false},
		{"prefix-wildcard", "options:sdl3-root=/opt/*", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := EvalPredicateString(c.expr, ctx)
			require.NoError(t, err)
			if got != c.want {
				t.Errorf("%q = %v, want %v", c.expr, got, c.want)
			}
		})
	}
}

func TestFilterActionClause(t *testing.T) {
	ctx := buildctx.Context{Action: "gen-cmake"}
	got, err := EvalPredicateString("action:gen-*", ctx)
	require.NoError(t, err)
	require.True(t, got)

	ctx.Action = "build"
	got, err = EvalPredicateString("action:build", ctx)
	require.NoError(t, err)
	require.True(t, got)
}

func TestFilterBareKeywords(t *testing.T) {
	ctx := buildctx.Context{Verbose: true, NoCache: false}
	got, err := EvalPredicateString("verbose", ctx)
	require.NoError(t, err)
	require.True(t, got)

	got, err = EvalPredicateString("no-cache", ctx)
	require.NoError(t, err)
	require.False(t, got)
}

// TestFilterPurity is testable property #8 of spec.md §8: evaluating the
// same predicate against the same context repeatedly must be stable.
func TestFilterPurity(t *testing.T) {
	ctx := buildctx.Context{Configuration: "Release", Platform: buildctx.Triple{OS: "linux", Arch: "arm64"}}
	expr := "system:Linux and (architecture:arm64 or architecture:x64)"
	first, err := EvalPredicateString(expr, ctx)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		got, err := EvalPredicateString(expr, ctx)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
}

func TestParsePredicateErrors(t *testing.T) {
	_, err := ParsePredicate("system:Linux and")
	require.Error(t, err)

	_, err = ParsePredicate("(system:Linux")
	require.Error(t, err)

	_, err = ParsePredicate("bogusclause")
	require.Error(t, err)
}
