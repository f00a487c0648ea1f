// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// UseColor is whether to use color in log messages.
// It is turned off by [NewHandler] for outputs that are not terminals.
var UseColor = true

// colorProfile is the termenv color profile in use.
var colorProfile = termenv.ANSI256

// LevelColors are the colors used for the level names.
var LevelColors = map[slog.Level]termenv.Color{
	slog.LevelDebug: termenv.ANSIBrightBlack,
	slog.LevelInfo:  termenv.ANSICyan,
	slog.LevelWarn:  termenv.ANSIYellow,
	slog.LevelError: termenv.ANSIRed,
}

// IsTerminal returns whether the given writer is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorize returns s styled with the given color if [UseColor] is on.
func colorize(s string, c termenv.Color, bold bool) string {
	if !UseColor || c == nil {
		return s
	}
	st := termenv.String(s).Foreground(colorProfile.Convert(c))
	if bold {
		st = st.Bold()
	}
	return st.String()
}

// levelColor returns the color for the given level, using the
// color of the closest lower standard level.
func levelColor(l slog.Level) termenv.Color {
	switch {
	case l >= slog.LevelError:
		return LevelColors[slog.LevelError]
	case l >= slog.LevelWarn:
		return LevelColors[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return LevelColors[slog.LevelInfo]
	default:
		return LevelColors[slog.LevelDebug]
	}
}
