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

package tokendiff

import "znkr.io/tokendiff/internal/edits"

// projectLines expands runs into one entry per line. Line numbers count the lines consumed on each
// side independently.
func projectLines(runs []Run, x, y []string) []LineEntry {
	out := make([]LineEntry, 0, size(runs))
	s, t := 0, 0
	for op := range edits.Expand(runs) {
		e := LineEntry{Op: op}
		if op != Insert {
			e.Left = Side{Line: s + 1, Content: at(x, s, identity)}
			s++
		}
		if op != Delete {
			e.Right = Side{Line: t + 1, Content: at(y, t, identity)}
			t++
		}
		out = append(out, e)
	}
	return out
}

// projectTokens expands runs into one entry per token. The value of a match is taken from x, but
// the position in y advances as well.
func projectTokens[T any](runs []Run, x, y []T, str func(T) string) []TokenEntry {
	out := make([]TokenEntry, 0, size(runs))
	s, t := 0, 0
	for op := range edits.Expand(runs) {
		var v string
		switch op {
		case Equal:
			v = at(x, s, str)
			s++
			t++
		case Delete:
			v = at(x, s, str)
			s++
		case Insert:
			v = at(y, t, str)
			t++
		}
		out = append(out, TokenEntry{Op: op, Value: v})
	}
	return out
}

// at returns the string for xs[i] or "" if i is out of range. The latter happens if normalization
// changed the number of tokens.
func at[T any](xs []T, i int, str func(T) string) string {
	if i >= len(xs) {
		return ""
	}
	return str(xs[i])
}

func size(runs []Run) int {
	n := 0
	for _, r := range runs {
		n += r.Count
	}
	return n
}
