/*
 * universal - Wrapper for slog used by the arithmetic exception trace
 *
 * Copyright 2026
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package ulog carries the core's only process-wide state: a per-goroutine
// set of arithmetic-exception flags plus an optional slog
// handler a caller can attach to observe them. Arithmetic packages that
// trace (cfloat) import this only for the Flags type; they report through
// the Flags value a caller passes in, so a program that never asks for
// tracing pays nothing for it.
package ulog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler writes formatted records to a file/buffer only; its debug field
// is stored but nothing writes to stderr. Timestamps and levels are rendered as plain text
// rather than structured JSON to keep exception traces grep-able.
type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), mu: h.mu, out: h.out, debug: h.debug}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), mu: h.mu, out: h.out, debug: h.debug}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}
	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	return err
}

// NewHandler builds a Handler writing to w. debug, if true, is reserved for
// callers that also want a stderr echo; it is stored rather than acted on
// here so a future io.MultiWriter wiring stays a one-line change.
func NewHandler(w io.Writer, opts *slog.HandlerOptions, debug bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out:   w,
		h:     slog.NewTextHandler(w, opts),
		mu:    &sync.Mutex{},
		debug: debug,
	}
}

// Event names an arithmetic-exception class a Flags recorder counts.
type Event int

const (
	EventInexact Event = iota
	EventOverflow
	EventUnderflow
	EventDivideByZero
	EventInvalid
)

func (e Event) String() string {
	switch e {
	case EventInexact:
		return "inexact"
	case EventOverflow:
		return "overflow"
	case EventUnderflow:
		return "underflow"
	case EventDivideByZero:
		return "divide_by_zero"
	case EventInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Flags is the per-goroutine arithmetic-exception flag set: each goroutine
// should own its own if it uses one. Callers that don't want tracing never
// construct one; silent-mode arithmetic never looks at it.
type Flags struct {
	log    *slog.Logger
	counts [5]uint64
}

// NewFlags attaches log as the optional sink for raised events. log may be
// nil, in which case Flags only counts.
func NewFlags(log *slog.Logger) *Flags {
	return &Flags{log: log}
}

// Raise records one occurrence of ev and, if a logger is attached, emits a
// debug-level trace line naming the component that raised it.
func (f *Flags) Raise(ev Event, component string) {
	if f == nil {
		return
	}
	f.counts[ev]++
	if f.log != nil {
		f.log.Debug("arithmetic exception", "event", ev.String(), "component", component)
	}
}

// Count returns how many times ev has been raised since construction (or
// the last Reset).
func (f *Flags) Count(ev Event) uint64 {
	if f == nil {
		return 0
	}
	return f.counts[ev]
}

// Reset clears all counters.
func (f *Flags) Reset() {
	if f == nil {
		return
	}
	f.counts = [5]uint64{}
}
