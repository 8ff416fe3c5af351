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

// Package benchmarks compares the comparison engine with other diff libraries.
package benchmarks

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/tokendiff"
	"znkr.io/tokendiff/textdiff"
)

// Impl is a line based diff implementation. Diff returns every changed line prefixed with "-" or
// "+"; unchanged lines, headers, and hunk markers may or may not be part of the output.
type Impl struct {
	Name string
	Diff func(x, y string) string
}

var Impls = []Impl{
	{
		Name: "tokendiff",
		Diff: func(x, y string) string {
			return textdiff.Unified(tokendiff.Diff(x, y, tokendiff.Lines))
		},
	},
	{
		Name: "go-internal",
		Diff: func(x, y string) string {
			return string(gointernal.Diff("x", []byte(x), "y", []byte(y)))
		},
	},
	{
		Name: "diffmatchpatch",
		Diff: func(x, y string) string {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			dmp := diffmatchpatch.New()
			rx, ry, lines := dmp.DiffLinesToRunes(x, y)
			diffs := dmp.DiffMainRunes(rx, ry, false)
			diffs = dmp.DiffCharsToLines(diffs, lines)

			var buf strings.Builder
			for _, diff := range diffs {
				prefix := " "
				switch diff.Type {
				case diffmatchpatch.DiffInsert:
					prefix = "+"
				case diffmatchpatch.DiffDelete:
					prefix = "-"
				}
				for _, line := range strings.SplitAfter(diff.Text, "\n") {
					if line == "" {
						continue
					}
					buf.WriteString(prefix)
					buf.WriteString(line)
				}
			}
			return buf.String()
		},
	},
	{
		Name: "godebug",
		Diff: func(x, y string) string {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			return godebug.Diff(x, y)
		},
	},
	{
		Name: "mb0",
		Diff: func(x, y string) string {
			// This function is not exactly creating a unified diff, but it's close enough to be
			// comparable.
			d := mb0lines{
				x: bytes.SplitAfter([]byte(x), []byte("\n")),
				y: bytes.SplitAfter([]byte(y), []byte("\n")),
			}
			changes := mb0.Diff(len(d.x), len(d.y), d)
			var buf bytes.Buffer
			a := 0
			for _, ch := range changes {
				for a < ch.A {
					buf.WriteString(" ")
					buf.Write(d.x[a])
					a++
				}
				for i := range ch.Del {
					buf.WriteString("-")
					buf.Write(d.x[ch.A+i])
					a++
				}
				for i := range ch.Ins {
					buf.WriteString("+")
					buf.Write(d.y[ch.B+i])
				}
			}
			for a < len(d.x) {
				buf.WriteString(" ")
				buf.Write(d.x[a])
				a++
			}
			return buf.String()
		},
	},
	{
		Name: "udiff",
		Diff: func(x, y string) string {
			return udiff.Unified("x", "y", x, y)
		},
	},
}

type mb0lines struct {
	x [][]byte
	y [][]byte
}

func (d mb0lines) Equal(i, j int) bool { return bytes.Equal(d.x[i], d.y[j]) }

// CountEdits counts the changed lines in the output of an [Impl]. File headers are skipped.
func CountEdits(out string) int {
	edits := 0
	for line := range strings.SplitSeq(out, "\n") {
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			edits++
		}
	}
	return edits
}

// CharImpl is a character based diff implementation. Edits returns the number of inserted and
// deleted UTF-16 code units.
type CharImpl struct {
	Name  string
	Edits func(x, y string) int
}

var CharImpls = []CharImpl{
	{
		Name: "tokendiff",
		Edits: func(x, y string) int {
			return tokendiff.Diff(x, y, tokendiff.Chars).D
		},
	},
	{
		Name: "diffmatchpatch",
		Edits: func(x, y string) int {
			dmp := diffmatchpatch.New()
			dmp.DiffTimeout = 0
			edits := 0
			for _, diff := range dmp.DiffMain(x, y, false) {
				if diff.Type != diffmatchpatch.DiffEqual {
					edits += len(utf16.Encode([]rune(diff.Text)))
				}
			}
			return edits
		},
	},
}
