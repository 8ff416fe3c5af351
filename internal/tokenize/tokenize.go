// Copyright 2025 Florian Zenker (flo@znkr.io)
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

// Package tokenize splits text into the tokens compared by the diff engine.
//
// All functions return zero tokens for empty input. For non-empty input, concatenating the tokens
// of Words and Units reproduces the input, and joining the tokens of Lines with "\n" does the same.
package tokenize

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Lines splits s on '\n'. Line terminators are not part of the tokens, a trailing '\n' produces an
// empty last line.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Words splits s into alternating runs of non-whitespace and whitespace. The first and the last
// token are always non-whitespace runs, so they are empty if s starts or ends with whitespace.
func Words(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	first, _ := utf8.DecodeRuneInString(s)
	start, space := 0, IsSpace(first)
	if space {
		out = append(out, "")
	}
	for i, r := range s {
		if IsSpace(r) != space {
			out = append(out, s[start:i])
			start, space = i, !space
		}
	}
	out = append(out, s[start:])
	if space {
		out = append(out, "")
	}
	return out
}

// Units splits s into UTF-16 code units. Characters outside the Basic Multilingual Plane become two
// tokens (a surrogate pair).
func Units(s string) []uint16 {
	if s == "" {
		return nil
	}
	return utf16.Encode([]rune(s))
}

// CountLines returns len(Lines(s)) without allocating.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// CountWords returns len(Words(s)) without allocating.
func CountWords(s string) int {
	n := 0
	space := false
	for i, r := range s {
		if sp := IsSpace(r); i == 0 || sp != space {
			n++
			if i == 0 && sp {
				n++ // empty leading token
			}
			space = sp
		}
	}
	if space {
		n++ // empty trailing token
	}
	return n
}

// CountUnits returns len(Units(s)) without allocating.
func CountUnits(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// UnitString returns the text of a single code unit. Surrogate halves can't be represented on their
// own and are returned as utf8.RuneError.
func UnitString(u uint16) string {
	if utf16.IsSurrogate(rune(u)) {
		return string(utf8.RuneError)
	}
	return string(rune(u))
}

// IsSpace reports whether r is whitespace. It matches the whitespace class of regular expressions
// in ECMAScript (\s), which differs slightly from unicode.IsSpace: U+0085 is not whitespace, U+FEFF
// is.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return 0x2000 <= r && r <= 0x200a
}

// HasNonSpace reports whether s contains at least one rune that is not whitespace.
func HasNonSpace(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !IsSpace(r) }) >= 0
}
