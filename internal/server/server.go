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

// Package server exposes the comparison engine over HTTP.
//
// A single endpoint, POST /api/diff, accepts a JSON object
//
//	{"text1": "...", "text2": "...", "mode": "line|word|char", "ignoreWhitespace": false, "ignoreCase": false}
//
// and responds with {"diff": [...], "stats": {...}, "mode": "..."}. Failures are reported as
// {"error": "..."} with a 4xx status.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"znkr.io/tokendiff"
	"znkr.io/tokendiff/internal/logging"
)

// Config limits the work a single request may cause.
type Config struct {
	// MaxBodyBytes is the maximum size of a request body. Zero disables the limit.
	MaxBodyBytes int64

	// MaxTokens is the maximum number of tokens, summed over both texts, that a request may
	// compare. Memory use grows quadratically with the edit distance, which is bounded by this
	// sum: the worst case for T tokens is about 8·T² bytes, 33 MB for the default of 2000. Zero
	// disables the limit.
	MaxTokens int
}

var DefaultConfig = Config{
	MaxBodyBytes: 1 << 20,
	MaxTokens:    2000,
}

// Request is the body of a comparison request. Missing texts are rejected, every other field is
// optional. Unknown modes compare characters.
type Request struct {
	Text1            *string `json:"text1"`
	Text2            *string `json:"text2"`
	Mode             string  `json:"mode,omitempty"`
	IgnoreWhitespace bool    `json:"ignoreWhitespace,omitempty"`
	IgnoreCase       bool    `json:"ignoreCase,omitempty"`
}

// Response is the body of a successful comparison. Diff holds a [tokendiff.LineEntry] list in
// line mode and a [tokendiff.TokenEntry] list otherwise. Mode repeats the requested mode.
type Response struct {
	Diff  any             `json:"diff"`
	Stats tokendiff.Stats `json:"stats"`
	Mode  string          `json:"mode,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server handles comparison requests.
type Server struct {
	cfg Config
	log logging.Logger
	mux *http.ServeMux
}

// New creates a server. A nil logger discards all log output.
func New(cfg Config, log logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{cfg: cfg, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/diff", s.handleDiff)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// statusError is an error with the HTTP status it's reported with.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func errorf(status int, format string, args ...any) error {
	return &statusError{status: status, msg: fmt.Sprintf(format, args...)}
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.log.With("method", r.Method, "path", r.URL.Path)
	res, resp, err := s.diff(w, r)
	if err != nil {
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		}
		if status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", http.MethodPost)
		}
		log.Warn("request rejected", "status", status, "error", err.Error())
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
	log.Info("diff",
		"mode", res.Mode,
		"n", res.N,
		"m", res.M,
		"d", res.D,
		"added", res.Stats.Added,
		"removed", res.Stats.Removed,
		"duration", time.Since(start),
		"status", http.StatusOK,
	)
}

func (s *Server) diff(w http.ResponseWriter, r *http.Request) (tokendiff.Result, *Response, error) {
	if r.Method != http.MethodPost {
		return tokendiff.Result{}, nil, errorf(http.StatusMethodNotAllowed, "method %s not allowed", r.Method)
	}

	body := r.Body
	if s.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return tokendiff.Result{}, nil, errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", mbe.Limit)
		}
		return tokendiff.Result{}, nil, errorf(http.StatusBadRequest, "invalid request body: %v", err)
	}
	if req.Text1 == nil || req.Text2 == nil {
		return tokendiff.Result{}, nil, errorf(http.StatusBadRequest, "text1 and text2 are required")
	}

	mode := tokendiff.ParseMode(req.Mode)
	var opts []tokendiff.Option
	if req.IgnoreCase {
		opts = append(opts, tokendiff.IgnoreCase())
	}
	if req.IgnoreWhitespace {
		opts = append(opts, tokendiff.IgnoreWhitespace())
	}

	if s.cfg.MaxTokens > 0 {
		n, m := tokendiff.Measure(*req.Text1, *req.Text2, mode, opts...)
		if n+m > s.cfg.MaxTokens {
			return tokendiff.Result{}, nil, errorf(http.StatusRequestEntityTooLarge, "texts have %d %s tokens, at most %d are allowed", n+m, mode, s.cfg.MaxTokens)
		}
	}

	res := tokendiff.Diff(*req.Text1, *req.Text2, mode, opts...)

	resp := &Response{Stats: res.Stats, Mode: req.Mode}
	if mode == tokendiff.Lines {
		resp.Diff = nonNil(res.Lines)
	} else {
		resp.Diff = nonNil(res.Tokens)
	}
	return res, resp, nil
}

// nonNil makes sure an empty list is encoded as [] instead of null.
func nonNil[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status is already sent, an encoding error can't be reported anymore.
	_ = json.NewEncoder(w).Encode(v)
}
