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

import "fmt"

// Mode selects the granularity of a comparison.
type Mode int

const (
	Chars Mode = iota // One token per UTF-16 code unit
	Words             // Alternating runs of whitespace and non-whitespace
	Lines             // One token per line, split on '\n'
)

// ParseMode returns the mode for the names "char", "word", and "line". Any other name selects
// [Chars].
func ParseMode(name string) Mode {
	switch name {
	case "line":
		return Lines
	case "word":
		return Words
	default:
		return Chars
	}
}

func (m Mode) String() string {
	switch m {
	case Chars:
		return "char"
	case Words:
		return "word"
	case Lines:
		return "line"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case Chars, Words, Lines:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
}

// UnmarshalText parses text like [ParseMode], except that unknown names are an error.
func (m *Mode) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "char", "word", "line":
		*m = ParseMode(s)
		return nil
	default:
		return fmt.Errorf("invalid mode %q", s)
	}
}
