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

// diff is a small CLI to manually run the diff implementations used for benchmarking.
//
// By default it prints the line based output of the selected library. With -chars, it prints the
// number of character edits found by the selected character based library instead.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/tools/txtar"
	"znkr.io/tokendiff/internal/benchmarks"
)

type config struct {
	lib   string
	chars bool
	x, y  string
	txtar string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.lib, "lib", "tokendiff", "library to use for diffing")
	flag.BoolVar(&cfg.chars, "chars", false, "compare characters and print the number of edits")
	flag.StringVar(&cfg.txtar, "txtar", "", "use testdata txtar file instead of two input files")
	flag.Parse()

	if cfg.txtar != "" {
		if flag.CommandLine.NArg() != 0 {
			fmt.Fprintf(os.Stderr, "error: usage: diff -txtar <file>\n")
			os.Exit(1)
		}
	} else {
		if flag.CommandLine.NArg() != 2 {
			fmt.Fprintf(os.Stderr, "error: usage: diff <x> <y>\n")
			os.Exit(1)
		}
		cfg.x = flag.CommandLine.Arg(0)
		cfg.y = flag.CommandLine.Arg(1)
	}

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, w io.Writer) error {
	x, y, err := readInputs(cfg)
	if err != nil {
		return err
	}

	if cfg.chars {
		for _, impl := range benchmarks.CharImpls {
			if impl.Name == cfg.lib {
				_, err := fmt.Fprintf(w, "%d edits\n", impl.Edits(x, y))
				return err
			}
		}
		return fmt.Errorf("character lib not found %q", cfg.lib)
	}
	for _, impl := range benchmarks.Impls {
		if impl.Name == cfg.lib {
			_, err := io.WriteString(w, impl.Diff(x, y))
			return err
		}
	}
	return fmt.Errorf("lib not found %q", cfg.lib)
}

func readInputs(cfg config) (x, y string, err error) {
	if cfg.txtar != "" {
		ar, err := txtar.ParseFile(cfg.txtar)
		if err != nil {
			return "", "", err
		}
		for _, f := range ar.Files {
			switch f.Name {
			case "x":
				x = string(f.Data)
			case "y":
				y = string(f.Data)
			}
		}
		return x, y, nil
	}
	bx, err := os.ReadFile(cfg.x)
	if err != nil {
		return "", "", err
	}
	by, err := os.ReadFile(cfg.y)
	if err != nil {
		return "", "", err
	}
	return string(bx), string(by), nil
}
