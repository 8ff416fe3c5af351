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

import "znkr.io/tokendiff/internal/config"

// Option configures the behavior of comparison functions.
type Option = config.Option

// IgnoreCase compares the texts case-insensitively. The returned entries keep the original case.
func IgnoreCase() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IgnoreCase = true
		return config.IgnoreCase
	}
}

// IgnoreWhitespace compares the texts with every run of whitespace collapsed to a single space and
// leading and trailing whitespace removed.
//
// Collapsing whitespace can change the number of tokens in line mode (newlines are whitespace) and
// at the start of the text in word mode. The comparison then no longer lines up with the original
// tokens and the projected entries may show unrelated or empty content.
func IgnoreWhitespace() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.IgnoreWhitespace = true
		return config.IgnoreWhitespace
	}
}

// Context sets the number of matches to include as a prefix and postfix for hunks rendered by
// [znkr.io/tokendiff/textdiff.Unified]. The default is 3.
func Context(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Context = max(0, n)
		return config.Context
	}
}
