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

package textdiff

import (
	"strconv"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
	"znkr.io/tokendiff"
	"znkr.io/tokendiff/internal/config"
	"znkr.io/tokendiff/internal/edits"
)

const (
	tabWidth = 4
	ellipsis = "…"
)

// Separators between the columns of [SideBySide], all of them separatorWidth cells wide.
const separatorWidth = 3

var separators = [...]string{
	edits.Equal:  " │ ",
	edits.Delete: " < ",
	edits.Insert: " > ",
}

// SideBySide renders a line by line comparison in two columns, x on the left and y on the right.
// Every row starts with the line number of each side, removed lines have an empty right column
// and added lines an empty left column. Lines that don't fit into their column are truncated and
// trailing blanks are removed from every row.
// Column widths are measured in terminal cells, wide characters count as two cells. It panics if
// r is not the result of a comparison in [tokendiff.Lines] mode.
//
// The following options are supported: [TerminalColors], [Width]
func SideBySide(r tokendiff.Result, opts ...tokendiff.Option) string {
	cfg := config.FromOptions(opts, config.Colors|config.Width)
	mustBeLines(r, "SideBySide")

	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	// Line numbers never exceed the number of entries.
	numWidth := len(strconv.Itoa(max(1, len(r.Lines))))
	colWidth := max(1, (cfg.Width-2*(numWidth+1)-separatorWidth)/2)

	var b strings.Builder
	for _, e := range r.Lines {
		var row strings.Builder
		writeColored(&row, cfg.Colors, lineNumberColor, lineNumber(e.Left.Line, numWidth))
		row.WriteByte(' ')
		left := fit(cond, e.Left.Content, colWidth)
		writeColored(&row, cfg.Colors, opColor(e.Op), left)
		row.WriteString(strings.Repeat(" ", colWidth-cond.StringWidth(left)))

		row.WriteString(separators[e.Op])

		if e.Op != edits.Delete {
			writeColored(&row, cfg.Colors, lineNumberColor, lineNumber(e.Right.Line, numWidth))
			row.WriteByte(' ')
			writeColored(&row, cfg.Colors, opColor(e.Op), fit(cond, e.Right.Content, colWidth))
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// lineNumber formats n right aligned in a field of the given width. Zero is a missing line and
// formatted as blanks.
func lineNumber(n, width int) string {
	if n == 0 {
		return strings.Repeat(" ", width)
	}
	s := strconv.Itoa(n)
	return strings.Repeat(" ", max(0, width-len(s))) + s
}

// fit expands tabs in s and truncates it to at most width cells. Truncation never splits a
// grapheme cluster and is marked with an ellipsis.
func fit(cond *runewidth.Condition, s string, width int) string {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	if cond.StringWidth(s) <= width {
		return s
	}

	limit := width - cond.StringWidth(ellipsis)
	var b strings.Builder
	w := 0
	iter := graphemes.FromString(s)
	for iter.Next() {
		g := iter.Value()
		gw := cond.StringWidth(g)
		if w+gw > limit {
			break
		}
		b.WriteString(g)
		w += gw
	}
	b.WriteString(ellipsis)
	return b.String()
}
