package model

import (
	"os"
	"strings"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
)

// Expander resolves %{group.field} tokens against a frozen Workspace and a
// build Context (spec.md §4.1 "Variable expansion"). It is single-pass:
// a token's own expansion is never re-scanned for further tokens, which
// both prevents infinite recursion and makes it safe to emit user input
// into a token's value.
type Expander struct {
	ws  *Workspace
	ctx buildctx.Context
	// project is the "current project" for %{prj.*} tokens; nil when
	// expanding a workspace-level template.
	project *Project
	warn    func(format string, args ...any)
}

// NewExpander builds an Expander bound to ws/ctx/project. warn receives one
// call per unknown token encountered; pass nil to discard warnings.
func NewExpander(ws *Workspace, ctx buildctx.Context, project *Project, warn func(string, ...any)) *Expander {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Expander{ws: ws, ctx: ctx, project: project, warn: warn}
}

// Expand performs a single left-to-right pass over s, replacing every
// %{identifier(.identifier)*} token it recognizes. Unknown tokens are left
// untouched in the output and reported via the Expander's warn callback —
// never treated as an error, since a downstream tool (a build hook, a
// linked script) may be the one meant to interpret them (spec.md §4.1).
func (e *Expander) Expand(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		start := strings.Index(s[i:], "%{")
		if start < 0 {
			out.WriteString(s[i:])
			break
		}
		start += i
		out.WriteString(s[i:start])
		end := strings.Index(s[start:], "}")
		if end < 0 {
			// Unterminated token: emit literally and stop scanning.
			out.WriteString(s[start:])
			break
		}
		end += start
		token := s[start+2 : end]
		if val, ok := e.resolveToken(token); ok {
			out.WriteString(val)
		} else {
			e.warn("unrecognized variable token %%{%s}", token)
			out.WriteString(s[start : end+1])
		}
		i = end + 1
	}
	return out.String()
}

func (e *Expander) resolveToken(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return "", false
	}
	group := parts[0]
	field := strings.Join(parts[1:], ".")

	switch group {
	case "wks":
		return e.resolveWorkspaceField(field)
	case "cfg":
		return e.resolveConfigField(field)
	case "env":
		v, ok := os.LookupEnv(field)
		return v, ok
	case "prj":
		if e.project == nil {
			return "", false
		}
		return e.resolveProjectField(e.project, field)
	default:
		// Cross-project token: %{ProjectName.field}. A group naming no
		// project is an unknown token: it is left literal and reported
		// through warn, and expansion does not fail.
		for _, p := range e.ws.Projects {
			if p.Name == group {
				v, ok := e.resolveProjectField(p, field)
				return v, ok
			}
		}
		return "", false
	}
}

func (e *Expander) resolveWorkspaceField(field string) (string, bool) {
	switch field {
	case "name":
		return e.ws.Name, true
	case "location":
		return normalizeSlashes(e.ws.Root), true
	default:
		if v, ok := e.ws.SDKPaths[field]; ok {
			return normalizeSlashes(v), true
		}
		return "", false
	}
}

func (e *Expander) resolveConfigField(field string) (string, bool) {
	switch field {
	case "buildcfg":
		return e.ctx.Configuration, true
	case "system":
		return e.ctx.Platform.OS, true
	case "arch":
		return e.ctx.Platform.Arch, true
	case "env":
		return e.ctx.Platform.Env, true
	case "action":
		return e.ctx.Action, true
	default:
		if v, ok := e.ctx.Options[field]; ok {
			return v, true
		}
		return "", false
	}
}

func (e *Expander) resolveProjectField(p *Project, field string) (string, bool) {
	// Field identifiers are matched case-insensitively so a cross-project
	// token like %{Jenga.Unitest.Source} resolves the same way as the
	// project's own %{prj.unitest.source}.
	field = strings.ToLower(field)
	switch field {
	case "name":
		return p.Name, true
	case "location":
		return normalizeSlashes(p.Location), true
	case "targetdir":
		return normalizeSlashes(p.TargetDirTemplate), true
	case "objdir":
		return normalizeSlashes(p.ObjDirTemplate), true
	case "kind":
		return p.Kind.String(), true
	case "language":
		return p.Language.String(), true
	default:
		if p.TestOptions != nil && field == "unitest.source" {
			return normalizeSlashes(p.TestOptions.SourceRoot), true
		}
		return "", false
	}
}

// normalizeSlashes is §4.1's "Path tokens are always normalized to forward
// slashes at emission; consumers may convert per platform at argv
// assembly."
func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
