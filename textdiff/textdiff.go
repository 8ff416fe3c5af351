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

// Package textdiff renders the results of [znkr.io/tokendiff.Diff] as text.
package textdiff

import (
	"fmt"
	"strings"

	"znkr.io/tokendiff"
	"znkr.io/tokendiff/internal/config"
	"znkr.io/tokendiff/internal/edits"
)

const (
	prefixMatch  = " "
	prefixDelete = "-"
	prefixInsert = "+"
)

// Markers used by [Inline] for removed and added tokens when colors are disabled.
const (
	deleteStart = "[-"
	deleteEnd   = "-]"
	insertStart = "{+"
	insertEnd   = "+}"
)

// Unified renders a line by line comparison in unified format. Only changed lines and the context
// around them are included. It panics if r is not the result of a comparison in
// [tokendiff.Lines] mode.
//
// The following options are supported: [tokendiff.Context], [TerminalColors]
func Unified(r tokendiff.Result, opts ...tokendiff.Option) string {
	cfg := config.FromOptions(opts, config.Context|config.Colors)
	mustBeLines(r, "Unified")

	ops := make([]edits.Op, len(r.Lines))
	for i, e := range r.Lines {
		ops[i] = e.Op
	}

	var b strings.Builder
	for h := range edits.Hunks(ops, cfg.Context) {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.S0+1, h.S1-h.S0, h.T0+1, h.T1-h.T0)
		writeColored(&b, cfg.Colors, hunkHeaderColor, header)
		b.WriteByte('\n')
		for _, e := range r.Lines[h.E0:h.E1] {
			writeLine(&b, cfg.Colors, e)
		}
	}
	return b.String()
}

// Inline renders every entry of r. Lines are prefixed with " ", "-", or "+". Words and characters
// are written in order with removed text enclosed in "[-" and "-]" and added text enclosed in
// "{+" and "+}". With [TerminalColors], colors replace the enclosing markers.
//
// The following options are supported: [TerminalColors]
func Inline(r tokendiff.Result, opts ...tokendiff.Option) string {
	cfg := config.FromOptions(opts, config.Colors)

	var b strings.Builder
	if r.Mode == tokendiff.Lines {
		for _, e := range r.Lines {
			writeLine(&b, cfg.Colors, e)
		}
		return b.String()
	}

	// Entries are written run by run, so that a block of changed tokens is enclosed only once.
	i := 0
	for _, run := range r.Runs {
		var sb strings.Builder
		for _, e := range r.Tokens[i : i+run.Count] {
			sb.WriteString(e.Value)
		}
		i += run.Count
		text := sb.String()

		switch {
		case cfg.Colors != nil:
			writeColored(&b, cfg.Colors, opColor(run.Op), text)
		case run.Op == edits.Delete:
			b.WriteString(deleteStart + text + deleteEnd)
		case run.Op == edits.Insert:
			b.WriteString(insertStart + text + insertEnd)
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, cc *config.ColorConfig, e tokendiff.LineEntry) {
	var line string
	switch e.Op {
	case edits.Equal:
		line = prefixMatch + e.Left.Content
	case edits.Delete:
		line = prefixDelete + e.Left.Content
	case edits.Insert:
		line = prefixInsert + e.Right.Content
	}
	writeColored(b, cc, opColor(e.Op), line)
	b.WriteByte('\n')
}

type colorFunc func(*config.ColorConfig) string

func hunkHeaderColor(cc *config.ColorConfig) string { return cc.HunkHeader }
func lineNumberColor(cc *config.ColorConfig) string { return cc.LineNumber }

func opColor(op edits.Op) colorFunc {
	return func(cc *config.ColorConfig) string {
		switch op {
		case edits.Delete:
			return cc.Delete
		case edits.Insert:
			return cc.Insert
		default:
			return cc.Match
		}
	}
}

// writeColored writes s to b, surrounded by the color selected by fn if colors are enabled.
func writeColored(b *strings.Builder, cc *config.ColorConfig, fn colorFunc, s string) {
	if cc == nil || s == "" {
		b.WriteString(s)
		return
	}
	code := fn(cc)
	if code == "" {
		b.WriteString(s)
		return
	}
	b.WriteString(code)
	b.WriteString(s)
	b.WriteString(cc.Reset)
}

func mustBeLines(r tokendiff.Result, fn string) {
	if r.Mode != tokendiff.Lines {
		panic("textdiff." + fn + " requires a result in line mode, got " + r.Mode.String())
	}
}
