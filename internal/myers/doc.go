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

// Package myers contains an implementation of Myers' shortest edit script search.
//
// The implementation is the straightforward greedy variant from section 2 of the paper. It keeps a
// snapshot of the search frontier for every depth (the trace) and walks the trace backwards to
// recover the edit script. Memory use is therefore O(D²) where D is the number of insertions and
// deletions in the result. Time complexity is O((N+M)D).
//
// # Edit graph
//
// For x = "ABCABBA" and y = "CBABAC", every edit script is a path from the top left to the bottom
// right corner of the graph below:
//
//	(0,0)   A   B   C   A   B   B   A
//	    ┌───┬───┬───┬───┬───┬───┬───┐ 0
//	    │   │   │ ╲ │   │   │   │   │
//	 C  ├───┼───┼───┼───┼───┼───┼───┤ 1
//	    │   │ ╲ │   │   │ ╲ │ ╲ │   │
//	 B  ├───┼───┼───┼───┼───┼───┼───┤ 2
//	    │ ╲ │   │   │ ╲ │   │   │ ╲ │
//	 A  ├───┼───┼───┼───┼───┼───┼───┤ 3
//	    │   │ ╲ │   │   │ ╲ │ ╲ │   │
//	 B  ├───┼───┼───┼───┼───┼───┼───┤ 4
//	    │ ╲ │   │   │ ╲ │   │   │ ╲ │
//	 A  ├───┼───┼───┼───┼───┼───┼───┤ 5
//	    │   │   │ ╲ │   │   │   │   │
//	 C  └───┴───┴───┴───┴───┴───┴───┘
//	    0   1   2   3   4   5   6     (7,6)
//
// A step to the right deletes an element of x, a step down inserts an element of y, and a diagonal
// step (only available where the elements are equal) keeps an element. Horizontal and vertical
// steps cost 1, diagonal steps are free. A maximal sequence of diagonal steps is called a snake.
//
// We use s for the horizontal and t for the vertical coordinate. The diagonal k = s-t contains all
// points with the same offset between the two inputs.
//
// # Search
//
// The search proceeds in rounds d = 0, 1, 2, .... After round d, v[k] holds the furthest s that
// can be reached on diagonal k with exactly d non-diagonal steps. A d-path ends on one of the
// diagonals -d, -d+2, ..., d. It's either a (d-1)-path on diagonal k+1 followed by a step down or a
// (d-1)-path on diagonal k-1 followed by a step right, followed by a snake. The first round in
// which some path reaches (N, M) determines the length of the shortest edit script.
//
// When both predecessors are available, the step down is taken only if the path on diagonal k+1
// is strictly further than the one on diagonal k-1; on a tie the step right (deletion) wins. This
// rule decides between equally short scripts and is part of the output contract: the backtrace
// re-derives the predecessors with the exact same comparison.
//
// ## References:
//
// Myers, E.W. An O(ND) difference algorithm and its variations. Algorithmica 1, 251-266 (1986).
// https://doi.org/10.1007/BF01840446
package myers
