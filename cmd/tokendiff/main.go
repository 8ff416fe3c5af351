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

// tokendiff compares two files line by line, word by word, or character by character.
//
// Usage:
//
//	tokendiff [flags] old new
//
// Either file may be "-" to read from standard input. The exit status is 0 if the files are equal
// after normalization, 1 if they differ, and 2 on errors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"znkr.io/tokendiff"
	"znkr.io/tokendiff/internal/server"
	"znkr.io/tokendiff/textdiff"
)

type config struct {
	mode             string
	ignoreCase       bool
	ignoreWhitespace bool
	format           string
	context          int
	color            string
	width            int
}

const defaultWidth = 120

func main() {
	changed, err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	case changed:
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, []string, error) {
	var cfg config
	fs := flag.NewFlagSet("tokendiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: tokendiff [flags] old new\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.mode, "mode", "line", "comparison mode: line, word, or char")
	fs.BoolVar(&cfg.ignoreCase, "ignore-case", false, "compare case-insensitively")
	fs.BoolVar(&cfg.ignoreWhitespace, "ignore-whitespace", false, "collapse and trim whitespace before comparing")
	fs.StringVar(&cfg.format, "format", "", "output format: inline, unified, side-by-side, json, or stats (default unified for line mode, inline otherwise)")
	fs.IntVar(&cfg.context, "context", 3, "number of unchanged lines around changes in unified format")
	fs.StringVar(&cfg.color, "color", "auto", "colorize output: auto, always, or never")
	fs.IntVar(&cfg.width, "width", 0, "total width for side-by-side format, 0 uses the terminal width")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, nil, fmt.Errorf("expected 2 files, got %d", fs.NArg())
	}
	return &cfg, fs.Args(), nil
}

// run compares the files named in args and writes the result to stdout. It reports whether the
// files differ.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (bool, error) {
	cfg, files, err := parseFlags(args, stderr)
	if err != nil {
		return false, err
	}

	var mode tokendiff.Mode
	if err := mode.UnmarshalText([]byte(cfg.mode)); err != nil {
		return false, err
	}
	format := cfg.format
	if format == "" {
		format = "inline"
		if mode == tokendiff.Lines {
			format = "unified"
		}
	}
	if (format == "unified" || format == "side-by-side") && mode != tokendiff.Lines {
		return false, fmt.Errorf("format %s requires -mode line", format)
	}

	x, err := readInput(files[0], stdin)
	if err != nil {
		return false, err
	}
	y, err := readInput(files[1], stdin)
	if err != nil {
		return false, err
	}

	var opts []tokendiff.Option
	if cfg.ignoreCase {
		opts = append(opts, tokendiff.IgnoreCase())
	}
	if cfg.ignoreWhitespace {
		opts = append(opts, tokendiff.IgnoreWhitespace())
	}
	r := tokendiff.Diff(x, y, mode, opts...)
	changed := r.D > 0

	colors, err := useColors(cfg.color, stdout)
	if err != nil {
		return false, err
	}
	var ropts []tokendiff.Option
	if colors {
		ropts = append(ropts, textdiff.TerminalColors())
	}

	switch format {
	case "unified":
		if !changed {
			return false, nil
		}
		fmt.Fprintf(stdout, "--- %s\n+++ %s\n", files[0], files[1])
		_, err = io.WriteString(stdout, textdiff.Unified(r, append(ropts, tokendiff.Context(cfg.context))...))
	case "side-by-side":
		width := cfg.width
		if width <= 0 {
			width = terminalWidth(stdout)
		}
		_, err = io.WriteString(stdout, textdiff.SideBySide(r, append(ropts, textdiff.Width(width))...))
	case "inline":
		out := textdiff.Inline(r, ropts...)
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		_, err = io.WriteString(stdout, out)
	case "json":
		resp := server.Response{Diff: []struct{}{}, Stats: r.Stats, Mode: mode.String()}
		switch {
		case len(r.Lines) > 0:
			resp.Diff = r.Lines
		case len(r.Tokens) > 0:
			resp.Diff = r.Tokens
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(resp)
	case "stats":
		_, err = fmt.Fprintf(stdout, "added %d, removed %d, modified %d, unchanged %d\n",
			r.Stats.Added, r.Stats.Removed, r.Stats.Modified, r.Stats.Unchanged)
	default:
		return false, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return false, fmt.Errorf("writing output: %v", err)
	}
	return changed, nil
}

func readInput(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %v", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %v", name, err)
	}
	return string(data), nil
}

func useColors(when string, w io.Writer) (bool, error) {
	switch when {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid -color value %q", when)
	}
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}
