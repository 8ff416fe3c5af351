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

import "znkr.io/tokendiff/internal/tokenize"

func lineStats(entries []LineEntry) Stats {
	var st Stats
	for _, e := range entries {
		st.count(e.Op)
	}
	return st
}

func tokenStats(entries []TokenEntry) Stats {
	var st Stats
	for _, e := range entries {
		st.count(e.Op)
	}
	return st
}

// wordStats only counts entries with at least one non-whitespace character. Differences in
// spacing alone show up in the entries, but not in the stats.
func wordStats(entries []TokenEntry) Stats {
	var st Stats
	for _, e := range entries {
		if tokenize.HasNonSpace(e.Value) {
			st.count(e.Op)
		}
	}
	return st
}

func (st *Stats) count(op Op) {
	switch op {
	case Insert:
		st.Added++
	case Delete:
		st.Removed++
	case Equal:
		st.Unchanged++
	}
}
