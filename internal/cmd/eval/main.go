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

// eval validates comparisons on the history of a git repository. Every changed file is compared
// in every mode and the entries of the result must reproduce both versions of the file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"znkr.io/tokendiff"
	"znkr.io/tokendiff/internal/cmd/eval/internal/git"
)

type config struct {
	repo      string
	sample    int
	parallel  int
	stats     string
	validate  bool
	maxTokens int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.repo, "repo", "", "repository to use for evaluation")
	flag.IntVar(&cfg.sample, "sample", 0, "if >0, sample commits to the value of the flag")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.BoolVar(&cfg.validate, "validate", true, "if validation should be performed")
	flag.IntVar(&cfg.maxTokens, "max-tokens", 20000, "skip comparisons with more tokens than this")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

var modes = []tokendiff.Mode{tokendiff.Lines, tokendiff.Words, tokendiff.Chars}

type note struct {
	prefix string
	msg    string
}

type result struct {
	commitID string
	file     string
	mode     tokendiff.Mode
	N, M     int
	D        int
	duration time.Duration
}

type change struct {
	commitID string
	filename string
	old, new string
}

func run(cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var commitsDone atomic.Int64
	var processed atomic.Int64

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
	}

	repo, err := git.Open(cfg.repo)
	if err != nil {
		return fmt.Errorf("opening git repository: %v", err)
	}

	commitIDs, err := repo.RevList()
	if err != nil {
		return fmt.Errorf("reading rev-list: %v", err)
	}

	// Sample commits
	if cfg.sample > 0 && cfg.sample < len(commitIDs) {
		picked := make(map[int]struct{}, cfg.sample)
		sample := make([]string, 0, cfg.sample)
		for len(sample) < cfg.sample {
			i := rand.IntN(len(commitIDs))
			if _, ok := picked[i]; ok {
				continue
			}
			sample = append(sample, commitIDs[i])
			picked[i] = struct{}{}
		}
		commitIDs = sample
	}

	// Read changes.
	changes := make(chan change)
	var changesWG sync.WaitGroup
	chunkSize := max(1, len(commitIDs)/(4*runtime.GOMAXPROCS(0)))
	for chunk := range slices.Chunk(commitIDs, chunkSize) {
		changesWG.Add(1)
		go func() {
			defer changesWG.Done()
			for _, commitID := range chunk {
				files, err := repo.Changes(commitID)
				if err != nil {
					notes <- note{
						prefix: commitID,
						msg:    fmt.Sprintf("error processing commit: %v", err),
					}
				}
				for _, file := range files {
					if isBinary(file.Name) {
						continue
					}
					repo.Read([]string{file.OldID, file.NewID}, func(res []string, err error) {
						if err != nil {
							notes <- note{
								prefix: commitID + ":" + file.Name,
								msg:    fmt.Sprintf("error reading blobs: %v", err),
							}
							return
						}
						changes <- change{
							commitID: commitID,
							filename: file.Name,
							old:      res[0],
							new:      res[1],
						}
					})
				}
				commitsDone.Add(1)
			}
		}()
	}

	// Compare.
	var processWG sync.WaitGroup
	var results chan result
	if cfg.stats != "" {
		results = make(chan result)
	}
	for range cfg.parallel {
		processWG.Add(1)
		go func() {
			defer processWG.Done()
			for change := range changes {
				for _, mode := range modes {
					if n, m := tokendiff.Measure(change.old, change.new, mode); n+m > cfg.maxTokens {
						continue
					}
					start := time.Now()
					r := tokendiff.Diff(change.old, change.new, mode)
					duration := time.Since(start)

					if results != nil {
						results <- result{
							commitID: change.commitID,
							file:     change.filename,
							mode:     mode,
							N:        r.N,
							M:        r.M,
							D:        r.D,
							duration: duration,
						}
					}
					if cfg.validate {
						if msg := validate(change.old, change.new, r); msg != "" {
							notes <- note{
								prefix: change.commitID + ":" + change.filename + ":" + mode.String(),
								msg:    msg,
							}
						}
					}
				}
				processed.Add(1)
			}
		}()
	}

	// Render progress
	var ioWG sync.WaitGroup
	render := func() {
		const width = 60
		commits := commitsDone.Load()
		processed := processed.Load()
		progress := float64(commits) / float64(max(1, len(commitIDs)))
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var commitsPerSec, procPerSec int
		if commits > 0 {
			commitsPerSec = int((time.Duration(commits) * time.Second) / time.Since(start))
		}
		if processed > 0 {
			procPerSec = int((time.Duration(processed) * time.Second) / time.Since(start))
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d commits/s, %d files/s) ", width, bar, 100*progress, commitsPerSec, procPerSec)
	}
	ioWG.Add(1)
	go func() {
		defer ioWG.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				render()

			case <-ticker.C:
				render()

			case <-done:
				render()
				fmt.Printf("\n")
				return
			}
		}
	}()
	var statsWG sync.WaitGroup
	if results != nil {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := bufio.NewWriter(stats)
			w.WriteString("commit_id,file,mode,N,M,D,duration_ns\n")
			for result := range results {
				_, err := fmt.Fprintf(w, "%s,%s,%s,%d,%d,%d,%d\n", result.commitID, result.file, result.mode, result.N, result.M, result.D, result.duration.Nanoseconds())
				if err != nil {
					notes <- note{
						prefix: result.commitID + ":" + result.file,
						msg:    fmt.Sprintf("failed to write stats: %v", err),
					}
				}
			}
			if err := w.Flush(); err != nil {
				notes <- note{
					prefix: "",
					msg:    fmt.Sprintf("failed to flush stats: %v", err),
				}
			}
		}()
	}

	// Shutdown
	changesWG.Wait()
	repo.Close()
	close(changes)
	processWG.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait()
	close(done)
	ioWG.Wait()

	return nil
}

func isBinary(name string) bool {
	for _, ext := range []string{".zip", ".syso", ".png", ".jpg", ".gz", ".pdf"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// validate checks that the entries of r reproduce old and new and that D counts the edits. It
// returns a description of the first problem found or "" if there is none.
func validate(old, new string, r tokendiff.Result) string {
	// Code units of a surrogate pair are projected individually and can't reproduce the text.
	if r.Mode == tokendiff.Chars && (!isBMP(old) || !isBMP(new)) {
		return ""
	}
	gotOld, gotNew, d := reconstruct(r)
	switch {
	case gotOld != old:
		return fmt.Sprintf("entries don't reproduce the old file. got:\n%s\nwant:\n%s", gotOld, old)
	case gotNew != new:
		return fmt.Sprintf("entries don't reproduce the new file. got:\n%s\nwant:\n%s", gotNew, new)
	case d != r.D:
		return fmt.Sprintf("found %d edits, but D is %d", d, r.D)
	}
	return ""
}

func reconstruct(r tokendiff.Result) (old, new string, d int) {
	if r.Mode == tokendiff.Lines {
		var x, y []string
		for _, e := range r.Lines {
			if e.Op != tokendiff.Insert {
				x = append(x, e.Left.Content)
			}
			if e.Op != tokendiff.Delete {
				y = append(y, e.Right.Content)
			}
			if e.Op != tokendiff.Equal {
				d++
			}
		}
		return strings.Join(x, "\n"), strings.Join(y, "\n"), d
	}
	var x, y strings.Builder
	for _, e := range r.Tokens {
		if e.Op != tokendiff.Insert {
			x.WriteString(e.Value)
		}
		if e.Op != tokendiff.Delete {
			y.WriteString(e.Value)
		}
		if e.Op != tokendiff.Equal {
			d++
		}
	}
	return x.String(), y.String(), d
}

func isBMP(s string) bool {
	for _, r := range s {
		if r > 0xFFFF || r == '\uFFFD' {
			return false
		}
	}
	return true
}
