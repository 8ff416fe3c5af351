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
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"znkr.io/tokendiff/internal/tokenize"
)

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name      string
		x, y      string
		opts      []Option
		want      []LineEntry
		wantStats Stats
	}{
		{
			name: "identical",
			x:    "foo\nbar",
			y:    "foo\nbar",
			want: []LineEntry{
				{Equal, Side{1, "foo"}, Side{1, "foo"}},
				{Equal, Side{2, "bar"}, Side{2, "bar"}},
			},
			wantStats: Stats{Unchanged: 2},
		},
		{
			name:      "empty",
			x:         "",
			y:         "",
			want:      nil,
			wantStats: Stats{},
		},
		{
			name: "x-empty",
			x:    "",
			y:    "x\ny",
			want: []LineEntry{
				{Insert, Side{}, Side{1, "x"}},
				{Insert, Side{}, Side{2, "y"}},
			},
			wantStats: Stats{Added: 2},
		},
		{
			name: "y-empty",
			x:    "x\ny",
			y:    "",
			want: []LineEntry{
				{Delete, Side{1, "x"}, Side{}},
				{Delete, Side{2, "y"}, Side{}},
			},
			wantStats: Stats{Removed: 2},
		},
		{
			name: "replace-line",
			x:    "a\nb\nc",
			y:    "a\nx\nc",
			want: []LineEntry{
				{Equal, Side{1, "a"}, Side{1, "a"}},
				{Delete, Side{2, "b"}, Side{}},
				{Insert, Side{}, Side{2, "x"}},
				{Equal, Side{3, "c"}, Side{3, "c"}},
			},
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 2},
		},
		{
			name: "diverging-line-numbers",
			x:    "a\nb\nc\nd",
			y:    "a\nc\nd\ne",
			want: []LineEntry{
				{Equal, Side{1, "a"}, Side{1, "a"}},
				{Delete, Side{2, "b"}, Side{}},
				{Equal, Side{3, "c"}, Side{2, "c"}},
				{Equal, Side{4, "d"}, Side{3, "d"}},
				{Insert, Side{}, Side{4, "e"}},
			},
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 3},
		},
		{
			name: "ignore-case",
			x:    "Foo\nBAR",
			y:    "foo\nbar",
			opts: []Option{IgnoreCase()},
			want: []LineEntry{
				{Equal, Side{1, "Foo"}, Side{1, "foo"}},
				{Equal, Side{2, "BAR"}, Side{2, "bar"}},
			},
			wantStats: Stats{Unchanged: 2},
		},
		{
			// Collapsing whitespace joins all lines into one. The projection then shows the
			// first original line of x next to the first original line of y.
			name: "ignore-whitespace-joins-lines",
			x:    "a\nb",
			y:    "a b",
			opts: []Option{IgnoreWhitespace()},
			want: []LineEntry{
				{Equal, Side{1, "a"}, Side{1, "a b"}},
			},
			wantStats: Stats{Unchanged: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.x, tt.y, Lines, tt.opts...)
			if diff := cmp.Diff(tt.want, got.Lines); diff != "" {
				t.Errorf("Diff(...) entries are different [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantStats, got.Stats); diff != "" {
				t.Errorf("Diff(...) stats are different [-want,+got]:\n%s", diff)
			}
			if got.Tokens != nil {
				t.Errorf("Diff(...) in line mode returned token entries: %v", got.Tokens)
			}
		})
	}
}

func TestDiffTokens(t *testing.T) {
	tests := []struct {
		name      string
		x, y      string
		mode      Mode
		opts      []Option
		want      string // rendered entries, see renderTokens
		wantStats Stats
	}{
		{
			name:      "words",
			x:         "the quick fox",
			y:         "the slow fox",
			mode:      Words,
			want:      "the| |[-quick-]|{+slow+}| |fox",
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 2},
		},
		{
			name:      "words-reordered",
			x:         "one two three",
			y:         "one three two",
			mode:      Words,
			want:      "one| |[-two-]|[- -]|three|{+ +}|{+two+}",
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 2},
		},
		{
			name:      "words-whitespace-only-change",
			x:         "a b",
			y:         "a  b",
			mode:      Words,
			want:      "a|[- -]|{+  +}|b",
			wantStats: Stats{Unchanged: 2},
		},
		{
			name:      "words-trailing-newline",
			x:         "foo bar\n",
			y:         "foo baz\n",
			mode:      Words,
			want:      "foo| |[-bar-]|{+baz+}|\n|",
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 1},
		},
		{
			name:      "words-surrounding-whitespace",
			x:         "c\n\nac ",
			y:         "\tc",
			mode:      Words,
			want:      "[-c-]|[-\n\n-]|[-ac-]|[- -]||{+\t+}|{+c+}",
			wantStats: Stats{Added: 1, Removed: 2},
		},
		{
			name:      "words-ignore-case-and-whitespace",
			x:         "The  Quick\tfox",
			y:         "the quick dog",
			mode:      Words,
			opts:      []Option{IgnoreCase(), IgnoreWhitespace()},
			want:      "The|  |Quick|\t|[-fox-]|{+dog+}",
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 2},
		},
		{
			name:      "chars",
			x:         "kitten",
			y:         "sitting",
			mode:      Chars,
			want:      "[-k-]|{+s+}|i|t|t|[-e-]|{+i+}|n|{+g+}",
			wantStats: Stats{Added: 3, Removed: 2, Unchanged: 4},
		},
		{
			name:      "chars-ignore-case",
			x:         "Hello",
			y:         "hello",
			mode:      Chars,
			opts:      []Option{IgnoreCase()},
			want:      "H|e|l|l|o",
			wantStats: Stats{Unchanged: 5},
		},
		{
			name:      "chars-surrogate-pair",
			x:         "a😀",
			y:         "a😁",
			mode:      Chars,
			want:      "a|�|[-�-]|{+�+}",
			wantStats: Stats{Added: 1, Removed: 1, Unchanged: 2},
		},
		{
			name:      "unknown-mode-compares-chars",
			x:         "ab",
			y:         "b",
			mode:      Mode(42),
			want:      "[-a-]|b",
			wantStats: Stats{Removed: 1, Unchanged: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.x, tt.y, tt.mode, tt.opts...)
			if diff := cmp.Diff(tt.want, renderTokens(got.Tokens)); diff != "" {
				t.Errorf("Diff(...) entries are different [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantStats, got.Stats); diff != "" {
				t.Errorf("Diff(...) stats are different [-want,+got]:\n%s", diff)
			}
			if got.Lines != nil {
				t.Errorf("Diff(...) in %v mode returned line entries: %v", got.Mode, got.Lines)
			}
		})
	}
}

func TestDiffDimensions(t *testing.T) {
	got := Diff("a\nb\nc\nd", "a\nc\nd\ne", Lines)
	if got.N != 4 || got.M != 4 || got.D != 2 {
		t.Errorf("Diff(...) = {N: %v, M: %v, D: %v}, want {N: 4, M: 4, D: 2}", got.N, got.M, got.D)
	}
	wantRuns := []Run{{Op: Equal, Count: 1}, {Op: Delete, Count: 1}, {Op: Equal, Count: 2}, {Op: Insert, Count: 1}}
	if diff := cmp.Diff(wantRuns, got.Runs); diff != "" {
		t.Errorf("Diff(...) runs are different [-want,+got]:\n%s", diff)
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name  string
		x, y  string
		mode  Mode
		opts  []Option
		wantN int
		wantM int
	}{
		{name: "empty", x: "", y: "", mode: Chars, wantN: 0, wantM: 0},
		{name: "lines", x: "a\nb\n", y: "a", mode: Lines, wantN: 3, wantM: 1},
		{name: "words", x: "the quick fox", y: " x", mode: Words, wantN: 5, wantM: 3},
		{name: "chars", x: "a😀", y: "abc", mode: Chars, wantN: 3, wantM: 3},
		{
			name:  "ignore-whitespace",
			x:     "a  b\nc",
			y:     "  a",
			mode:  Words,
			opts:  []Option{IgnoreWhitespace()},
			wantN: 5,
			wantM: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, m := Measure(tt.x, tt.y, tt.mode, tt.opts...)
			if n != tt.wantN || m != tt.wantM {
				t.Errorf("Measure(...) = (%v, %v), want (%v, %v)", n, m, tt.wantN, tt.wantM)
			}
			got := Diff(tt.x, tt.y, tt.mode, tt.opts...)
			if got.N != n || got.M != m {
				t.Errorf("Diff(...) = {N: %v, M: %v}, want Measure(...) = (%v, %v)", got.N, got.M, n, m)
			}
		})
	}
}

func TestDiffPanicsOnUnsupportedOption(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Diff(...) with Context option did not panic")
		}
	}()
	Diff("a", "b", Lines, Context(1))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"line", Lines},
		{"word", Words},
		{"char", Chars},
		{"", Chars},
		{"LINE", Chars},
		{"paragraph", Chars},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	lines := Diff("a\nb", "a\nc", Lines)
	data, err := json.Marshal(lines.Lines)
	if err != nil {
		t.Fatalf("json.Marshal(...) failed: %v", err)
	}
	want := `[` +
		`{"type":"equal","left":{"line":1,"content":"a"},"right":{"line":1,"content":"a"}},` +
		`{"type":"removed","left":{"line":2,"content":"b"},"right":{"line":null,"content":""}},` +
		`{"type":"added","left":{"line":null,"content":""},"right":{"line":2,"content":"c"}}` +
		`]`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("json.Marshal(...) result are different [-want,+got]:\n%s", diff)
	}
	var roundtrip []LineEntry
	if err := json.Unmarshal(data, &roundtrip); err != nil {
		t.Fatalf("json.Unmarshal(...) failed: %v", err)
	}
	if diff := cmp.Diff(lines.Lines, roundtrip); diff != "" {
		t.Errorf("json round trip changed line entries [-want,+got]:\n%s", diff)
	}

	words := Diff("a b", "a c", Words)
	data, err = json.Marshal(struct {
		Diff  []TokenEntry `json:"diff"`
		Stats Stats        `json:"stats"`
		Mode  Mode         `json:"mode"`
	}{words.Tokens, words.Stats, words.Mode})
	if err != nil {
		t.Fatalf("json.Marshal(...) failed: %v", err)
	}
	want = `{"diff":[` +
		`{"type":"equal","value":"a"},` +
		`{"type":"equal","value":" "},` +
		`{"type":"removed","value":"b"},` +
		`{"type":"added","value":"c"}` +
		`],"stats":{"added":1,"removed":1,"modified":0,"unchanged":1},"mode":"word"}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("json.Marshal(...) result are different [-want,+got]:\n%s", diff)
	}
}

// TestProperties checks properties that hold for every comparison on random inputs.
func TestProperties(t *testing.T) {
	rng := rand.New(rand.NewChaCha8(sha256.Sum256([]byte(t.Name()))))
	for _, mode := range []Mode{Chars, Words, Lines} {
		for i := range 100 {
			x, y := randomText(rng), randomText(rng)
			t.Run(fmt.Sprintf("%v/%d", mode, i), func(t *testing.T) {
				checkProperties(t, x, y, mode)
			})
		}
	}
}

func FuzzDiff(f *testing.F) {
	f.Add("a\nb\nc", "a\nx\nc", uint8(Lines))
	f.Add("the quick fox", "the slow fox", uint8(Words))
	f.Add("kitten", "sitting", uint8(Chars))
	f.Fuzz(func(t *testing.T, x, y string, mode uint8) {
		if len(x) > 300 || len(y) > 300 {
			t.Skip("input too large")
		}
		// Reconstruction doesn't hold for invalid UTF-8 or surrogate pairs in character mode.
		if !isBMP(x) || !isBMP(y) {
			t.Skip("input not valid BMP text")
		}
		checkProperties(t, x, y, Mode(mode%3))
	})
}

func checkProperties(t *testing.T, x, y string, mode Mode) {
	t.Helper()
	got := Diff(x, y, mode)

	// Determinism
	if diff := cmp.Diff(got, Diff(x, y, mode)); diff != "" {
		t.Errorf("Diff(...) is not deterministic [-first,+second]:\n%s", diff)
	}

	// Coalescing
	for i := 1; i < len(got.Runs); i++ {
		if got.Runs[i-1].Op == got.Runs[i].Op {
			t.Errorf("adjacent runs %v and %v share operation %v", i-1, i, got.Runs[i].Op)
		}
	}

	// Reconstruction
	gotX, gotY := reconstruct(got)
	if gotX != x {
		t.Errorf("reconstructed x = %q, want %q", gotX, x)
	}
	if gotY != y {
		t.Errorf("reconstructed y = %q, want %q", gotY, y)
	}

	// Minimality
	var want int
	switch mode {
	case Lines:
		want = editDistance(tokenize.Lines(x), tokenize.Lines(y))
	case Words:
		want = editDistance(tokenize.Words(x), tokenize.Words(y))
	default:
		want = editDistance(tokenize.Units(x), tokenize.Units(y))
	}
	if got.D != want {
		t.Errorf("Diff(...).D = %v, want minimal edit distance %v", got.D, want)
	}
	nedits := 0
	for _, r := range got.Runs {
		if r.Op != Equal {
			nedits += r.Count
		}
	}
	if nedits != got.D {
		t.Errorf("runs contain %v edits, want %v", nedits, got.D)
	}

	// Identity
	self := Diff(x, x, mode)
	for _, r := range self.Runs {
		if r.Op != Equal {
			t.Errorf("Diff(x, x, ...) contains %v", r.Op)
		}
	}
	if self.Stats.Added != 0 || self.Stats.Removed != 0 {
		t.Errorf("Diff(x, x, ...).Stats = %+v, want no additions or removals", self.Stats)
	}
	if mode != Words && self.Stats.Unchanged != self.N {
		t.Errorf("Diff(x, x, ...).Stats.Unchanged = %v, want %v", self.Stats.Unchanged, self.N)
	}

	// Totality vs emptiness
	added := Diff("", y, mode)
	if added.Stats.Removed != 0 || added.Stats.Unchanged != 0 || added.D != added.M {
		t.Errorf("Diff(\"\", y, ...) = %+v, want only additions", added.Stats)
	}
	removed := Diff(x, "", mode)
	if removed.Stats.Added != 0 || removed.Stats.Unchanged != 0 || removed.D != removed.N {
		t.Errorf("Diff(x, \"\", ...) = %+v, want only removals", removed.Stats)
	}
}

// reconstruct returns the texts of both sides of a result.
func reconstruct(r Result) (x, y string) {
	if r.Mode == Lines {
		var xs, ys []string
		for _, e := range r.Lines {
			if e.Op != Insert {
				xs = append(xs, e.Left.Content)
			}
			if e.Op != Delete {
				ys = append(ys, e.Right.Content)
			}
		}
		return strings.Join(xs, "\n"), strings.Join(ys, "\n")
	}

	var xb, yb strings.Builder
	for _, e := range r.Tokens {
		if e.Op != Insert {
			xb.WriteString(e.Value)
		}
		if e.Op != Delete {
			yb.WriteString(e.Value)
		}
	}
	return xb.String(), yb.String()
}

func renderTokens(entries []TokenEntry) string {
	var parts []string
	for _, e := range entries {
		switch e.Op {
		case Equal:
			parts = append(parts, e.Value)
		case Delete:
			parts = append(parts, "[-"+e.Value+"-]")
		case Insert:
			parts = append(parts, "{+"+e.Value+"+}")
		}
	}
	return strings.Join(parts, "|")
}

// editDistance returns the minimal number of insertions and deletions that transform x into y.
func editDistance[T comparable](x, y []T) int {
	prev := make([]int, len(y)+1)
	curr := make([]int, len(y)+1)
	for i := range x {
		for j := range y {
			if x[i] == y[j] {
				curr[j+1] = prev[j] + 1
			} else {
				curr[j+1] = max(prev[j+1], curr[j])
			}
		}
		prev, curr = curr, prev
	}
	return len(x) + len(y) - 2*prev[len(y)]
}

func randomText(rng *rand.Rand) string {
	const alphabet = "ab \nA\tü世"
	runes := []rune(alphabet)
	n := rng.IntN(40)
	var sb strings.Builder
	for range n {
		sb.WriteRune(runes[rng.IntN(len(runes))])
	}
	return sb.String()
}

func isBMP(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsFunc(s, func(r rune) bool { return r >= 0x10000 })
}
