package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/RihenUniverse/Jenga-sub001/internal/buildctx"
)

// Filter expressions compose atomic clauses with NOT/AND/OR and
// parentheses, precedence NOT > AND > OR, left-associative (spec.md §4.1).
//
// Atomic clauses:
//   configurations:X   system:X   architecture:X   platforms:X
//   options:K=V        options:K            action:X
//   verbose            no-cache
//
// options:K=V supports a trailing "*" wildcard on V for prefix matching
// (e.g. options:sdl3-root=* matches any non-empty value for sdl3-root).

// predicateExpr is the parsed AST node. Exactly one of And/Or/Not/Clause is
// set, except for a leaf which has only Clause set.
type predicateExpr struct {
	And    []*predicateExpr
	Or     []*predicateExpr
	Not    *predicateExpr
	Clause *clause
}

type clause struct {
	kind  string // "configurations", "system", "architecture", "platforms", "options", "action", "verbose", "no-cache"
	key   string // for options:K or options:K=V
	value string // for options:K=V / configurations:X / etc.
	hasEq bool   // true for options:K=V (as opposed to bare options:K)
}

var (
	predicateCacheMu sync.Mutex
	predicateCache    = map[string]*predicateExpr{}
)

// ParsePredicate parses and caches a filter predicate string. Parsing is
// deterministic and pure, so repeated parses of the same string return
// structurally identical trees; caching just avoids re-tokenizing on every
// (project, context) pair during resolution.
func ParsePredicate(s string) (*predicateExpr, error) {
	predicateCacheMu.Lock()
	if e, ok := predicateCache[s]; ok {
		predicateCacheMu.Unlock()
		return e, nil
	}
	predicateCacheMu.Unlock()

	p := &predicateParser{tokens: tokenizePredicate(s)}
	expr, err := p.parseOr()
	if err != nil {
		return nil, fmt.Errorf("filter predicate %q: %w", s, err)
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("filter predicate %q: unexpected trailing token %q", s, p.tokens[p.pos])
	}

	predicateCacheMu.Lock()
	predicateCache[s] = expr
	predicateCacheMu.Unlock()
	return expr, nil
}

// --- tokenizer ---

func tokenizePredicate(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	// Normalize case-insensitive keywords to lowercase; clause bodies keep
	// their original case and are matched case-insensitively at eval time.
	for i, t := range tokens {
		lower := strings.ToLower(t)
		if lower == "and" || lower == "or" || lower == "not" || t == "(" || t == ")" {
			tokens[i] = lower
		}
	}
	return tokens
}

// --- recursive-descent parser: precedence NOT > AND > OR ---

type predicateParser struct {
	tokens []string
	pos    int
}

func (p *predicateParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ""
}

func (p *predicateParser) parseOr() (*predicateExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []*predicateExpr{left}
	for p.peek() == "or" {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &predicateExpr{Or: terms}, nil
}

func (p *predicateParser) parseAnd() (*predicateExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	terms := []*predicateExpr{left}
	for p.peek() == "and" {
		p.pos++
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &predicateExpr{And: terms}, nil
}

func (p *predicateParser) parseNot() (*predicateExpr, error) {
	if p.peek() == "not" {
		p.pos++
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &predicateExpr{Not: inner}, nil
	}
	return p.parsePrimary()
}

func (p *predicateParser) parsePrimary() (*predicateExpr, error) {
	tok := p.peek()
	if tok == "(" {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	}
	if tok == "" {
		return nil, fmt.Errorf("unexpected end of predicate")
	}
	p.pos++
	c, err := parseClause(tok)
	if err != nil {
		return nil, err
	}
	return &predicateExpr{Clause: c}, nil
}

func parseClause(tok string) (*clause, error) {
	lower := strings.ToLower(tok)
	if lower == "verbose" || lower == "no-cache" {
		return &clause{kind: lower}, nil
	}
	colon := strings.Index(tok, ":")
	if colon < 0 {
		return nil, fmt.Errorf("unrecognized clause %q", tok)
	}
	kind := strings.ToLower(tok[:colon])
	rest := tok[colon+1:]
	switch kind {
	case "configurations", "system", "architecture", "platforms", "action":
		return &clause{kind: kind, value: rest}, nil
	case "options":
		if eq := strings.Index(rest, "="); eq >= 0 {
			return &clause{kind: kind, key: rest[:eq], value: rest[eq+1:], hasEq: true}, nil
		}
		return &clause{kind: kind, key: rest}, nil
	default:
		return nil, fmt.Errorf("unrecognized clause kind %q", kind)
	}
}

// --- evaluation ---

// Eval evaluates a parsed predicate against ctx. Evaluation is pure: the
// same (predicate, ctx) pair always yields the same result (spec.md §4.1
// "Filter purity", testable property #8).
func (e *predicateExpr) Eval(ctx buildctx.Context) bool {
	switch {
	case e.Clause != nil:
		return evalClause(e.Clause, ctx)
	case e.Not != nil:
		return !e.Not.Eval(ctx)
	case len(e.And) > 0:
		for _, t := range e.And {
			if !t.Eval(ctx) {
				return false
			}
		}
		return true
	case len(e.Or) > 0:
		for _, t := range e.Or {
			if t.Eval(ctx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evalClause(c *clause, ctx buildctx.Context) bool {
	eqFold := strings.EqualFold
	switch c.kind {
	case "verbose":
		return ctx.Verbose
	case "no-cache":
		return ctx.NoCache
	case "configurations":
		return eqFold(c.value, ctx.Configuration)
	case "system":
		return eqFold(c.value, ctx.Platform.OS)
	case "architecture":
		return eqFold(c.value, ctx.Platform.Arch)
	case "platforms":
		return eqFold(c.value, ctx.Platform.String()) || eqFold(c.value, ctx.Platform.OS+"-"+ctx.Platform.Arch)
	case "action":
		return matchActionGlob(c.value, ctx.Action)
	case "options":
		val, present := lookupOption(ctx.Options, c.key)
		if !c.hasEq {
			return present
		}
		if strings.HasSuffix(c.value, "*") {
			prefix := strings.TrimSuffix(c.value, "*")
			return present && val != "" && strings.HasPrefix(strings.ToLower(val), strings.ToLower(prefix))
		}
		return present && eqFold(val, c.value)
	default:
		return false
	}
}

// lookupOption is a case-insensitive key lookup, since options:K clauses
// are matched case-insensitively per spec.md §4.1.
func lookupOption(options map[string]string, key string) (string, bool) {
	if v, ok := options[key]; ok {
		return v, true
	}
	for k, v := range options {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// matchActionGlob implements the "action:gen-*" style suffix wildcard
// spec.md §4.1 describes for the action clause (distinct from options:K=V's
// value wildcard, but the same "*" convention).
func matchActionGlob(pattern, action string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(strings.ToLower(action), strings.ToLower(strings.TrimSuffix(pattern, "*")))
	}
	return strings.EqualFold(pattern, action)
}

// EvalPredicateString parses (from cache) and evaluates s against ctx in
// one call; the common case callers want.
func EvalPredicateString(s string, ctx buildctx.Context) (bool, error) {
	expr, err := ParsePredicate(s)
	if err != nil {
		return false, err
	}
	return expr.Eval(ctx), nil
}
