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

// Package git reads changed files from the history of a repository.
package git

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// nullID is the blob ID git reports for the missing side of an added or removed file.
const nullID = "0000000000000000000000000000000000000000"

type Repo struct {
	dir    string
	gitcat chan<- catRequest
	done   chan struct{}
}

// Open starts reading from the repository in dir.
func Open(dir string) (*Repo, error) {
	if _, err := git("-C", dir, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %v", dir, err)
	}
	gitcat, done, err := catter(dir)
	if err != nil {
		return nil, err
	}
	return &Repo{
		dir:    dir,
		gitcat: gitcat,
		done:   done,
	}, nil
}

// Close waits for all pending reads to finish.
func (r *Repo) Close() {
	close(r.gitcat)
	<-r.done
}

// RevList returns the IDs of all non-merge commits reachable from HEAD, newest first.
func (r *Repo) RevList() ([]string, error) {
	out, err := git("-C", r.dir, "rev-list", "--no-merges", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

// Change is a file modified by a commit.
type Change struct {
	Name   string
	Status byte // A (added), M (modified), D (deleted), ...
	OldID  string
	NewID  string
}

// Changes lists the files changed by commit compared to its first parent.
func (r *Repo) Changes(commit string) ([]Change, error) {
	out, err := git("-C", r.dir, "diff-tree", "-r", "--no-renames", commit)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(out, "\n")[1:]
	ret := make([]Change, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			return nil, fmt.Errorf("diff-tree line not starting with ':': %q", line)
		}
		// :<old mode> <new mode> <old id> <new id> <status>\t<name>
		meta, name, ok := strings.Cut(line[1:], "\t")
		fields := strings.Fields(meta)
		if !ok || len(fields) != 5 || len(fields[4]) == 0 {
			return nil, fmt.Errorf("malformed diff-tree line: %q", line)
		}
		ret = append(ret, Change{
			Name:   name,
			Status: fields[4][0],
			OldID:  fields[2],
			NewID:  fields[3],
		})
	}
	return ret, nil
}

// Read reads the contents of the blobs and calls cb with them, in the order of the IDs. The null
// ID reads as an empty blob. Calls to cb happen on a single goroutine and in the order of the
// calls to Read.
func (r *Repo) Read(blobIDs []string, cb func(contents []string, err error)) {
	r.gitcat <- catRequest{blobIDs, cb}
}

func git(args ...string) (string, error) {
	var wout, werr strings.Builder
	cmd := exec.Command("git", args...)
	cmd.Stdout = &wout
	cmd.Stderr = &werr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running git command %v: %v\n%s", cmd, err, werr.String())
	}
	return wout.String(), nil
}

type catRequest struct {
	blobIDs []string
	cb      func([]string, error)
}

// catter runs a single git cat-file process. Requests are written in batches and answered in the
// same order by a second goroutine.
func catter(repo string) (chan<- catRequest, chan struct{}, error) {
	wc := make(chan catRequest)
	rc := make(chan []catRequest, runtime.GOMAXPROCS(0))
	done := make(chan struct{})

	cmd := exec.Command("git", "-C", repo, "cat-file", "--batch-command", "--buffer")
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting stdin: %v", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting stdout: %v", err)
	}
	var werr bytes.Buffer
	cmd.Stderr = &werr
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting git cat-file: %v", err)
	}

	go func() {
		defer close(rc)
		defer in.Close()
		w := bufio.NewWriter(in)
		const batch = 32
		for {
			bundle := make([]catRequest, 0, batch)
			instr, ok := <-wc
			for ok {
				for _, id := range instr.blobIDs {
					if id != nullID {
						fmt.Fprintf(w, "contents %s\n", id)
					}
				}
				bundle = append(bundle, instr)
				if len(bundle) == batch {
					break
				}
				select {
				case instr, ok = <-wc:
				default:
					ok = false
				}
			}
			if len(bundle) == 0 {
				return
			}
			// Write errors surface as read errors on the other side.
			fmt.Fprintf(w, "flush\n")
			w.Flush()
			rc <- bundle
		}
	}()

	go func() {
		defer close(done)
		r := bufio.NewReader(out)
		var failed error
		for bundle := range rc {
			for _, instr := range bundle {
				if failed != nil {
					instr.cb(nil, failed)
					continue
				}
				contents, err := readBlobs(r, instr.blobIDs)
				if err != nil {
					failed = fmt.Errorf("%v\n%s", err, werr.String())
				}
				instr.cb(contents, err)
			}
		}
		cmd.Wait()
	}()

	return wc, done, nil
}

func readBlobs(r *bufio.Reader, ids []string) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		if id == nullID {
			continue
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading blob header: %v", err)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("found %v fields in blob header, expected 3: %q", len(fields), line)
		}
		if fields[0] != id {
			return nil, fmt.Errorf("blob IDs don't match %s vs %s", fields[0], id)
		}
		n, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing blob size: %v", err)
		}
		buf := make([]byte, n+1)
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("reading blob %s: %v", id, err)
		}
		out[i] = string(buf[:n])
	}
	return out, nil
}
