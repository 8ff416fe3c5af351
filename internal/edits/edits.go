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

// Package edits contains the edit operations produced by the diff engine and functions to group
// them into runs and hunks.
package edits

import (
	"fmt"
	"iter"
)

// Op describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op
type Op uint8

const (
	Equal  Op = iota // An element present in both x and y
	Delete           // An element only present in x
	Insert           // An element only present in y
)

// Label returns the name used for op in serialized output.
func (op Op) Label() string {
	switch op {
	case Equal:
		return "equal"
	case Delete:
		return "removed"
	case Insert:
		return "added"
	default:
		return fmt.Sprint(uint8(op))
	}
}

// ParseLabel is the inverse of [Op.Label].
func ParseLabel(s string) (Op, error) {
	switch s {
	case "equal":
		return Equal, nil
	case "removed":
		return Delete, nil
	case "added":
		return Insert, nil
	default:
		return 0, fmt.Errorf("unknown edit operation %q", s)
	}
}

func (op Op) MarshalText() ([]byte, error) {
	if op > Insert {
		return nil, fmt.Errorf("invalid edit operation %d", uint8(op))
	}
	return []byte(op.Label()), nil
}

func (op *Op) UnmarshalText(text []byte) error {
	v, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*op = v
	return nil
}

// Run is a number of consecutive edits with the same operation.
type Run struct {
	Op    Op
	Count int
}

// Coalesce merges consecutive operations of the same kind into runs. No two adjacent runs in the
// output share an operation and the counts add up to len(ops).
func Coalesce(ops []Op) []Run {
	var runs []Run
	for _, op := range ops {
		if n := len(runs); n > 0 && runs[n-1].Op == op {
			runs[n-1].Count++
			continue
		}
		runs = append(runs, Run{Op: op, Count: 1})
	}
	return runs
}

// Expand returns the operations described by runs, one per element. It's the inverse of
// [Coalesce].
func Expand(runs []Run) iter.Seq[Op] {
	return func(yield func(Op) bool) {
		for _, r := range runs {
			for range r.Count {
				if !yield(r.Op) {
					return
				}
			}
		}
	}
}

// Hunk describes a sequence of consecutive edits.
type Hunk struct {
	S0, S1 int // Start and end of the hunk in x.
	T0, T1 int // Start and end of the hunk in y.
	E0, E1 int // Start and end of the hunk in the edit sequence.
}

// Hunks groups the edits in ops into hunks. A hunk contains a block of insertions and deletions
// together with up to context matches before and after it. Blocks separated by no more than
// 2*context matches are part of the same hunk.
func Hunks(ops []Op, context int) iter.Seq[Hunk] {
	return func(yield func(Hunk) bool) {
		context = max(0, context)
		s, t := 0, 0 // position in x and y of ops[e]
		e := 0
		advance := func(to int) {
			for ; e < to; e++ {
				switch ops[e] {
				case Equal:
					s++
					t++
				case Delete:
					s++
				case Insert:
					t++
				}
			}
		}
		for i := 0; i < len(ops); {
			if ops[i] == Equal {
				i++
				continue
			}

			// Find the end of the last change that is close enough to belong to this hunk.
			end := i
			for end < len(ops) {
				if ops[end] != Equal {
					end++
					continue
				}
				run := end
				for run < len(ops) && ops[run] == Equal {
					run++
				}
				if run == len(ops) || run-end > 2*context {
					break
				}
				end = run
			}

			advance(max(0, i-context))
			h := Hunk{S0: s, T0: t, E0: e}
			advance(min(len(ops), end+context))
			h.S1, h.T1, h.E1 = s, t, e
			if !yield(h) {
				return
			}
			i = e
		}
	}
}
