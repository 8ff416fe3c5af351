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

// Package normalize produces the comparison view of an input text.
package normalize

import (
	"strings"

	"znkr.io/tokendiff/internal/config"
	"znkr.io/tokendiff/internal/tokenize"
)

// Text returns the comparison view of s. With IgnoreCase, s is lowercased. With IgnoreWhitespace,
// every maximal run of whitespace is replaced with a single space and leading and trailing
// whitespace is removed. Without either, s is returned as is.
func Text(s string, cfg config.Config) string {
	if cfg.IgnoreCase {
		s = strings.ToLower(s)
	}
	if cfg.IgnoreWhitespace {
		s = strings.Join(strings.FieldsFunc(s, tokenize.IsSpace), " ")
	}
	return s
}
