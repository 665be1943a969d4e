// Copyright 2018 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package makedeps parses and prints Make-style dependency files, the
// format every GNU-dialect family translator requests via -MD -MF (the
// MSVC family translator's /sourceDependencies JSON is converted into the
// same Deps value by ParseSourceDependencies). This is the
// header-dependency listing the Cache's Tier 2 check consults to decide
// whether a translation unit's transitive includes changed since the
// last build.
package makedeps

import (
	"fmt"
	"io"
	"strings"
)

// Deps is a parsed Make-style dependency rule: one output, many inputs.
// When a depfile declares several outputs (ninja's "multiple outputs"
// form), Parse keeps only the last output's name and unions every
// output's inputs onto it — the resolver cares about "what does this
// object depend on", not about preserving each output's rule separately.
type Deps struct {
	Output string
	Inputs []string
}

// Parse reads a Make-style dependency file (the output of -MD -MF) and
// returns its Deps; cl.exe's /sourceDependencies JSON is read by
// ParseSourceDependencies instead. filename is used only in returned
// error messages.
func Parse(filename string, r io.Reader) (Deps, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Deps{}, fmt.Errorf("%s: %w", filename, err)
	}

	p := &depParser{input: string(buf), filename: filename}
	return p.parse()
}

type depParser struct {
	input    string
	filename string
	pos      int
}

func (p *depParser) parse() (Deps, error) {
	var deps Deps

	for {
		targets, err := p.parseTargets()
		if err != nil {
			return Deps{}, err
		}
		if len(targets) == 0 && p.atEOF() {
			break
		}
		// Make allows "out1 out2: deps" (multiple outputs sharing one
		// input list); the resolver only cares about one output name per
		// Deps, so the last target named anywhere in the file wins,
		// matching ninja's own depfile consumer.
		for _, t := range targets {
			deps.Output = t
		}

		inputs, err := p.parseInputs()
		if err != nil {
			return Deps{}, err
		}
		deps.Inputs = append(deps.Inputs, inputs...)

		if p.atEOF() {
			break
		}
	}

	deps.Inputs = dedupPreserveOrder(deps.Inputs)
	return deps, nil
}

// parseTargets reads up to the first unescaped ':' and splits it into one
// or more Make target names (spaces/tabs/newlines not preceded by a
// backslash separate names; backslash-space, backslash-colon, backslash-#
// and $$ unescape to a literal space/colon/#/$ within a name).
func (p *depParser) parseTargets() ([]string, error) {
	var names []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			names = append(names, sb.String())
			sb.Reset()
		}
	}
	for {
		if p.atEOF() {
			flush()
			return names, nil
		}
		c := p.input[p.pos]
		switch {
		case c == ':':
			p.pos++
			flush()
			return names, nil
		// A doubled backslash collapses to one literal backslash,
		// checked before any single-backslash escape below: "\\:" is a
		// literal backslash followed by the real separator, not an
		// escaped colon (distinguishes Windows "C:\" paths from the
		// "\:" single-backslash colon escape case further down).
		case c == '\\' && p.peekAt(1) == '\\':
			sb.WriteByte('\\')
			p.pos += 2
		case c == '\\' && isLineContinuation(p.input[p.pos:]):
			p.pos += lineContinuationLen(p.input[p.pos:])
			flush()
		case c == '\\' && p.peekAt(1) == ' ':
			sb.WriteByte(' ')
			p.pos += 2
		case c == '\\' && p.peekAt(1) == ':':
			sb.WriteByte(':')
			p.pos += 2
		case c == '\\' && p.peekAt(1) == '#':
			sb.WriteByte('#')
			p.pos += 2
		case c == '$' && p.peekAt(1) == '$':
			sb.WriteByte('$')
			p.pos += 2
		case c == ' ' || c == '\t':
			// Unescaped whitespace separates target names (Make's
			// "out1 out2: deps" multi-output form).
			flush()
			p.pos++
		case c == '\n' || c == '\r':
			flush()
			p.pos++
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

// parseInputs reads whitespace-separated input names until the next
// unescaped newline that is not a line continuation, or EOF.
func (p *depParser) parseInputs() ([]string, error) {
	var inputs []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			inputs = append(inputs, cur.String())
			cur.Reset()
		}
	}

	for !p.atEOF() {
		c := p.input[p.pos]
		switch {
		case c == '\\' && p.peekAt(1) == '\\':
			cur.WriteByte('\\')
			p.pos += 2
		case c == '\\' && isLineContinuation(p.input[p.pos:]):
			p.pos += lineContinuationLen(p.input[p.pos:])
		case c == '\\' && p.peekAt(1) == ' ':
			cur.WriteByte(' ')
			p.pos += 2
		case c == '\\' && p.peekAt(1) == ':':
			cur.WriteByte(':')
			p.pos += 2
		case c == '\\' && p.peekAt(1) == '#':
			cur.WriteByte('#')
			p.pos += 2
		case c == '$' && p.peekAt(1) == '$':
			cur.WriteByte('$')
			p.pos += 2
		case c == ' ' || c == '\t':
			flush()
			p.pos++
		case c == '\r':
			p.pos++
		case c == '\n':
			p.pos++
			flush()
			return inputs, nil
		default:
			// A lone backslash not matching any escape above (e.g. "\!"
			// in the escape test vector, or a literal Windows path
			// separator) is kept verbatim; ninja passes it through too.
			cur.WriteByte(c)
			p.pos++
		}
	}
	flush()
	return inputs, nil
}

func (p *depParser) atEOF() bool { return p.pos >= len(p.input) }

func (p *depParser) peekAt(off int) byte {
	if p.pos+off >= len(p.input) {
		return 0
	}
	return p.input[p.pos+off]
}

// isLineContinuation reports whether s begins with a backslash followed
// (optionally through a run of spaces/tabs) by a newline or CRLF — the
// three continuation spellings the ninja test suite exercises directly
// ("EarlyNewlineAndWhitespace", "Continuation", "CarriageReturnContinuation").
func isLineContinuation(s string) bool {
	return lineContinuationLen(s) > 0
}

func lineContinuationLen(s string) int {
	if len(s) == 0 || s[0] != '\\' {
		return 0
	}
	i := 1
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i < len(s) && s[i] == '\r' {
		i++
	}
	if i < len(s) && s[i] == '\n' {
		i++
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		return i
	}
	return 0
}

func dedupPreserveOrder(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Print renders Deps back into Make dependency-rule form, escaping
// spaces, colons, '#', '$' and backslashes the same way Parse expects to
// read them back (TestDepPrint in deps_test.go checks the printed form).
func (d Deps) Print() []byte {
	var sb strings.Builder
	sb.WriteString(escapeMakeToken(d.Output))
	sb.WriteByte(':')
	for _, in := range d.Inputs {
		sb.WriteByte(' ')
		sb.WriteString(escapeMakeToken(in))
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

func escapeMakeToken(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case ' ', ':', '\\', '#':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '$':
			sb.WriteString("$$")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
