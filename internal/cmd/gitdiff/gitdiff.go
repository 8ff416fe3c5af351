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

// gitdiff is a tool that can be used with git using GIT_EXTERNAL_DIFF.
//
// It prints word level changes instead of git's line based output:
//
//	GIT_EXTERNAL_DIFF=gitdiff git diff
//
// TOKENDIFF_MODE selects line, word, or char mode (default word). Line mode prints a unified
// diff. Output is colored if TOKENDIFF_COLOR is set to a non-empty value.
package main

import (
	"fmt"
	"io"
	"os"

	"znkr.io/tokendiff"
	"znkr.io/tokendiff/textdiff"
)

func main() {
	if err := run(os.Args, os.Getenv, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string, stdout io.Writer) error {
	if len(args) < 8 {
		return fmt.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}

	path, oldFile, oldHex, newFile, newHex, newMode := args[1], args[2], args[3], args[5], args[6], args[7]

	old, err := readFile(oldFile)
	if err != nil {
		return fmt.Errorf("reading old file: %v", err)
	}
	new, err := readFile(newFile)
	if err != nil {
		return fmt.Errorf("reading new file: %v", err)
	}

	mode := tokendiff.Words
	if m := getenv("TOKENDIFF_MODE"); m != "" {
		if err := mode.UnmarshalText([]byte(m)); err != nil {
			return fmt.Errorf("TOKENDIFF_MODE: %v", err)
		}
	}
	var opts []tokendiff.Option
	if getenv("TOKENDIFF_COLOR") != "" {
		opts = append(opts, textdiff.TerminalColors())
	}

	r := tokendiff.Diff(old, new, mode)
	if r.D == 0 {
		return nil
	}

	fmt.Fprintf(stdout, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(stdout, "index %s..%s %s\n", abbrev(oldHex), abbrev(newHex), newMode)
	fmt.Fprintf(stdout, "--- a/%s\n", path)
	fmt.Fprintf(stdout, "+++ b/%s\n", path)
	var out string
	if mode == tokendiff.Lines {
		out = textdiff.Unified(r, opts...)
	} else {
		out = textdiff.Inline(r, opts...) + "\n"
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func readFile(name string) (string, error) {
	if name == "/dev/null" {
		return "", nil
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

func abbrev(hex string) string {
	if len(hex) > 10 {
		return hex[:10]
	}
	return hex
}
