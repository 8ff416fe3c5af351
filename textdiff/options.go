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

package textdiff

import (
	"znkr.io/tokendiff"
	"znkr.io/tokendiff/internal/config"
	"znkr.io/tokendiff/textdiff/color"
)

// TerminalColors enables ANSI colors in the output. Without options, removals are red, additions
// are green, hunk headers are cyan, and line numbers are dim. Options override individual colors;
// an option without parameters disables coloring for that element.
func TerminalColors(opts ...color.Option) tokendiff.Option {
	return func(cfg *config.Config) config.Flag {
		cc := config.DefaultColors
		for _, opt := range opts {
			opt(&cc)
		}
		cfg.Colors = &cc
		return config.Colors
	}
}

// Width sets the total display width for [SideBySide]. The default is 120.
func Width(n int) tokendiff.Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Width = n
		return config.Width
	}
}
