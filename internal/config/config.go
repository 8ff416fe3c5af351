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

// Package config turns functional options into a configuration for the diff engine and the
// renderers built on top of it.
package config

// ColorConfig holds ANSI escape sequences used by renderers. An empty string disables coloring
// for the respective element.
type ColorConfig struct {
	HunkHeader string
	Match      string
	Delete     string
	Insert     string
	LineNumber string
	Reset      string
}

// DefaultColors are the colors used when terminal colors are enabled without further options.
var DefaultColors = ColorConfig{
	HunkHeader: "\033[36m",
	Match:      "",
	Delete:     "\033[31m",
	Insert:     "\033[32m",
	LineNumber: "\033[2m",
	Reset:      "\033[0m",
}

type Config struct {
	// Lowercase both inputs before comparing them.
	IgnoreCase bool

	// Collapse every run of whitespace to a single space and trim both inputs before comparing
	// them.
	IgnoreWhitespace bool

	// Context is the number of matches to include as a prefix and postfix for hunks rendered.
	Context int

	// Colors used by renderers, nil disables colors.
	Colors *ColorConfig

	// Width is the total display width available to renderers that lay out columns.
	Width int
}

var Default = Config{
	IgnoreCase:       false,
	IgnoreWhitespace: false,
	Context:          3,
	Colors:           nil,
	Width:            120,
}

type Flag int

const (
	IgnoreCase Flag = 1 << iota
	IgnoreWhitespace
	Context
	Colors
	Width
)

type Option func(*Config) Flag

// FromOptions applies opts to the default configuration. It panics if an option is used that's
// not part of allowed.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case IgnoreCase:
		return "tokendiff.IgnoreCase"
	case IgnoreWhitespace:
		return "tokendiff.IgnoreWhitespace"
	case Context:
		return "tokendiff.Context"
	case Colors:
		return "textdiff.TerminalColors"
	case Width:
		return "textdiff.Width"
	default:
		panic("never reached")
	}
}
