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

// Package tokendiff compares two texts line by line, word by word, or character by character.
//
// The main function is [Diff]. It computes a minimal edit script using Myers' algorithm on the
// tokens of both texts and projects the result back onto the original texts. Comparison can ignore
// case ([IgnoreCase]) and whitespace differences ([IgnoreWhitespace]); the returned entries always
// contain the original, unmodified text.
//
// Performance: Time complexity is O((N+M)D) and memory use is O(D²), where N and M are the number of
// tokens in the two texts and D is the number of insertions and deletions. Inputs that differ a
// lot are expensive. Callers that accept untrusted input should bound N+M, see [Measure].
//
// Note: For rendering results, please see [znkr.io/tokendiff/textdiff].
package tokendiff
