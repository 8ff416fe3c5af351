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

package myers

import (
	"slices"

	"znkr.io/tokendiff/internal/edits"
)

// Trace is the result of a search. It holds a snapshot of the frontier for every depth up to
// and including the depth of the shortest edit script.
type Trace struct {
	N, M int // Length of x and y.
	D    int // Number of insertions and deletions in the shortest edit script.

	// Frontier snapshots: frontiers[d] is the frontier at the start of round d and covers the
	// diagonals -d-1 through d+1. Diagonal k is stored at frontiers[d][k+d+1].
	frontiers [][]int
}

// Diff returns the shortest edit script that transforms x into y, one operation per element, and
// the number of insertions and deletions in it.
func Diff[T comparable](x, y []T) (ops []edits.Op, d int) {
	tr := Search(x, y)
	return tr.Backtrack(), tr.D
}

// Search finds the length of the shortest edit script transforming x into y.
func Search[T comparable](x, y []T) *Trace {
	n, m := len(x), len(y)
	dmax := n + m

	// Frontier for diagonals -dmax-1 through dmax+1. Diagonal 1 is initialized to 0 so that the
	// first round starts from (0, 0).
	off := dmax + 1
	v := make([]int, 2*dmax+3)
	v[off+1] = 0

	tr := &Trace{N: n, M: m}
	for d := 0; d <= dmax; d++ {
		tr.frontiers = append(tr.frontiers, slices.Clone(v[off-d-1:off+d+2]))

		for k := -d; k <= d; k += 2 {
			var s int
			if k == -d || k != d && v[off+k-1] < v[off+k+1] {
				s = v[off+k+1] // step down
			} else {
				s = v[off+k-1] + 1 // step right
			}
			t := s - k

			for s < n && t < m && x[s] == y[t] {
				s++
				t++
			}

			v[off+k] = s

			if s >= n && t >= m {
				tr.D = d
				return tr
			}
		}
	}
	panic("never reached")
}

// Backtrack reconstructs the edit script from the trace. The result contains one operation per
// element in forward order.
func (tr *Trace) Backtrack() []edits.Op {
	ops := make([]edits.Op, 0, (tr.N+tr.M+tr.D)/2)
	s, t := tr.N, tr.M
	for d := tr.D; d >= 0; d-- {
		v := tr.frontiers[d]
		off := d + 1
		k := s - t

		var pk int
		if k == -d || k != d && v[off+k-1] < v[off+k+1] {
			pk = k + 1
		} else {
			pk = k - 1
		}
		ps := v[off+pk]
		pt := ps - pk

		for s > ps && t > pt {
			ops = append(ops, edits.Equal)
			s--
			t--
		}

		if d > 0 {
			if s > ps {
				ops = append(ops, edits.Delete)
				s--
			} else if t > pt {
				ops = append(ops, edits.Insert)
				t--
			}
		}
	}
	slices.Reverse(ops)
	return ops
}
