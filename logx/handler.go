// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler is a [slog.Handler] that writes one line per record with
// a colored level name followed by the message and key=value attributes.
type Handler struct {
	opts slog.HandlerOptions

	// prefix is the group prefix for attribute keys.
	prefix string

	// attrs are the preformatted attributes added with WithAttrs.
	attrs []byte

	mu  *sync.Mutex
	out io.Writer
}

// NewHandler returns a new [Handler] writing to the given output with the
// given options, which may be nil. Color is turned off if out is not
// a terminal.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if !IsTerminal(out) {
		UseColor = false
	}
	return h
}

// SetDefaultLogger sets the default [slog] logger to a [Handler]
// writing to [os.Stderr] at [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, &slog.HandlerOptions{Level: &UserLevel})))
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	buf := make([]byte, 0, 1024)
	buf = append(buf, colorize(r.Level.String(), levelColor(r.Level), true)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *Handler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = h.appendAttr(buf, prefix, ga)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, colorize(prefix+a.Key+"=", LevelColors[slog.LevelDebug], false)...)
	switch a.Value.Kind() {
	case slog.KindString:
		buf = appendString(buf, a.Value.String())
	case slog.KindTime:
		buf = append(buf, a.Value.Time().Format(time.RFC3339)...)
	default:
		if err, ok := a.Value.Any().(error); ok {
			buf = appendString(buf, err.Error())
		} else {
			buf = appendString(buf, fmt.Sprint(a.Value.Any()))
		}
	}
	return buf
}

// appendString appends s, quoted if it is empty or contains spaces or quotes.
func appendString(buf []byte, s string) []byte {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '"' || r == '=' }) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		h2.attrs = h.appendAttr(h2.attrs, h.prefix, a)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix += name + "."
	return &h2
}
