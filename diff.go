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

import (
	"encoding/json"

	"znkr.io/tokendiff/internal/config"
	"znkr.io/tokendiff/internal/edits"
	"znkr.io/tokendiff/internal/myers"
	"znkr.io/tokendiff/internal/normalize"
	"znkr.io/tokendiff/internal/tokenize"
)

// Op describes an edit operation. Its text representation is "equal", "removed", or "added".
type Op = edits.Op

const (
	Equal  = edits.Equal  // A token present in both texts
	Delete = edits.Delete // A token removed from the first text
	Insert = edits.Insert // A token added in the second text
)

// Run describes Count consecutive tokens with the same edit operation.
type Run = edits.Run

// Side is one side of a [LineEntry].
type Side struct {
	Line    int    // 1-based line number or 0 if this side has no line.
	Content string // Line content without the line terminator.
}

type jsonSide struct {
	Line    *int   `json:"line"`
	Content string `json:"content"`
}

// MarshalJSON encodes a missing line number as null.
func (s Side) MarshalJSON() ([]byte, error) {
	js := jsonSide{Content: s.Content}
	if s.Line > 0 {
		js.Line = &s.Line
	}
	return json.Marshal(js)
}

func (s *Side) UnmarshalJSON(data []byte) error {
	var js jsonSide
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	*s = Side{Content: js.Content}
	if js.Line != nil {
		s.Line = *js.Line
	}
	return nil
}

// LineEntry describes one line of a line by line comparison.
//
//   - For Equal, both Left and Right are set.
//   - For Delete, Left contains the removed line and Right is unset (zero value).
//   - For Insert, Right contains the added line and Left is unset (zero value).
type LineEntry struct {
	Op    Op   `json:"type"`
	Left  Side `json:"left"`
	Right Side `json:"right"`
}

// TokenEntry describes one token of a word or character comparison. For Equal and Delete, Value
// is taken from the first text, for Insert from the second.
type TokenEntry struct {
	Op    Op     `json:"type"`
	Value string `json:"value"`
}

// Stats summarizes a comparison.
//
// Modified is always zero; adjacent deletions and insertions are not paired up.
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// Result is the outcome of a comparison.
type Result struct {
	Mode Mode

	// Entries, one per token. Lines is set in Lines mode, Tokens otherwise.
	Lines  []LineEntry
	Tokens []TokenEntry

	// Runs is the coalesced edit script. No two adjacent runs have the same operation.
	Runs []Run

	Stats Stats

	N, M int // Number of tokens in the compared texts.
	D    int // Number of insertions and deletions in the edit script.
}

// Diff compares x and y token by token and returns a minimal edit script projected onto the
// original texts.
//
// Tokens are compared after applying [IgnoreCase] and [IgnoreWhitespace]. The entries of the
// result always carry the unmodified tokens of x and y. Modes other than [Lines] and [Words]
// compare characters.
//
// The following options are supported: [IgnoreCase], [IgnoreWhitespace]
func Diff(x, y string, mode Mode, opts ...Option) Result {
	cfg := config.FromOptions(opts, config.IgnoreCase|config.IgnoreWhitespace)
	cx, cy := normalize.Text(x, cfg), normalize.Text(y, cfg)

	switch mode {
	case Lines:
		r := compare(tokenize.Lines(cx), tokenize.Lines(cy))
		r.Mode = Lines
		r.Lines = projectLines(r.Runs, tokenize.Lines(x), tokenize.Lines(y))
		r.Stats = lineStats(r.Lines)
		return r

	case Words:
		r := compare(tokenize.Words(cx), tokenize.Words(cy))
		r.Mode = Words
		r.Tokens = projectTokens(r.Runs, tokenize.Words(x), tokenize.Words(y), identity)
		r.Stats = wordStats(r.Tokens)
		return r

	default:
		r := compare(tokenize.Units(cx), tokenize.Units(cy))
		r.Mode = Chars
		r.Tokens = projectTokens(r.Runs, tokenize.Units(x), tokenize.Units(y), tokenize.UnitString)
		r.Stats = tokenStats(r.Tokens)
		return r
	}
}

// Measure returns the number of tokens [Diff] compares for x and y with the same arguments, without
// running the comparison.
//
// The cost of a comparison grows with N+M and, in the worst case, quadratically in memory. Measure
// allows callers to reject inputs before paying that cost.
//
// The following options are supported: [IgnoreCase], [IgnoreWhitespace]
func Measure(x, y string, mode Mode, opts ...Option) (n, m int) {
	cfg := config.FromOptions(opts, config.IgnoreCase|config.IgnoreWhitespace)
	cx, cy := normalize.Text(x, cfg), normalize.Text(y, cfg)

	var count func(string) int
	switch mode {
	case Lines:
		count = tokenize.CountLines
	case Words:
		count = tokenize.CountWords
	default:
		count = tokenize.CountUnits
	}
	return count(cx), count(cy)
}

func compare[T comparable](x, y []T) Result {
	ops, d := myers.Diff(x, y)
	return Result{
		Runs: edits.Coalesce(ops),
		N:    len(x),
		M:    len(y),
		D:    d,
	}
}

func identity(s string) string { return s }
