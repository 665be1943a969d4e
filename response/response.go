// Copyright 2021 Google Inc. All rights reserved.
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

// Package response reads and writes ninja/ar/ld-compatible @file response
// files. No link or archive step calls it: the scheduler and the family
// translators always pass object lists directly on the command line.
package response

import (
	"io"
	"strings"
)

// ReadRspFile parses shell-quoted whitespace-separated tokens the way
// ninja itself reads a response file back: single quotes are literal
// (no escape processing inside), double quotes allow \\ and \" escapes,
// and a bare backslash outside any quoting escapes the following byte.
// An unterminated quote is not an error — whatever followed the opening
// quote to end of input becomes that token's remaining content.
func ReadRspFile(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var tokens []string
	var cur strings.Builder
	hasCur := false
	n := len(data)

	for i := 0; i < n; {
		c := data[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if hasCur {
				tokens = append(tokens, cur.String())
				cur.Reset()
				hasCur = false
			}
			i++
		case c == '\'':
			hasCur = true
			i++
			for i < n && data[i] != '\'' {
				cur.WriteByte(data[i])
				i++
			}
			if i < n {
				i++ // skip closing quote
			}
		case c == '"':
			hasCur = true
			i++
			for i < n && data[i] != '"' {
				if data[i] == '\\' && i+1 < n && (data[i+1] == '\\' || data[i+1] == '"') {
					cur.WriteByte(data[i+1])
					i += 2
				} else {
					cur.WriteByte(data[i])
					i++
				}
			}
			if i < n {
				i++ // skip closing quote
			}
		case c == '\\':
			hasCur = true
			if i+1 < n {
				cur.WriteByte(data[i+1])
				i += 2
			} else {
				cur.WriteByte(c)
				i++
			}
		default:
			hasCur = true
			cur.WriteByte(c)
			i++
		}
	}
	if hasCur {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// WriteRspFile writes args in the same shell-quoted form ninja's own
// response-file writer produces: a token composed only of "safe"
// characters is written bare, anything else is single-quoted with
// embedded single quotes split via the close/escape/reopen idiom
// ('...'\''...').
func WriteRspFile(w io.Writer, args []string) error {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if rspTokenNeedsQuoting(a) {
			sb.WriteString(quoteRspToken(a))
		} else {
			sb.WriteString(a)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func rspTokenNeedsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !isSafeRspChar(r) {
			return true
		}
	}
	return false
}

func isSafeRspChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '/' || r == '_' || r == '-' || r == '+':
		return true
	default:
		return false
	}
}

func quoteRspToken(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		if r == '\'' {
			sb.WriteString(`'\''`)
		} else {
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
