// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx sets up the structured slog logger used across the
// engine, with terminal colored level labels.
package logx

import (
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected
// for what logging and printing messages should be shown.
// It defaults to [slog.LevelInfo] and is controlled by the debug and
// release build tags and by [SetLevel].
var UserLevel = new(slog.LevelVar)

func init() {
	UserLevel.Set(buildLevel)
}

// SetLevel sets [UserLevel] from a level name such as "debug",
// "info", "warn" or "error".
func SetLevel(name string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return err
	}
	UserLevel.Set(lvl)
	return nil
}

// NewHandler returns a text [slog.Handler] writing to w whose level labels
// are colored according to the color profile of w (plain text when w is
// not a terminal). The timestamp is omitted.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(LevelString(out, lvl))
				}
			}
			return a
		},
	})
}

// LevelString returns the label of the given level,
// colored for the given output.
func LevelString(out *termenv.Output, lvl slog.Level) string {
	st := out.String(lvl.String())
	switch {
	case lvl >= slog.LevelError:
		st = st.Foreground(out.Color("1")).Bold()
	case lvl >= slog.LevelWarn:
		st = st.Foreground(out.Color("3"))
	case lvl >= slog.LevelInfo:
		st = st.Foreground(out.Color("4"))
	default:
		st = st.Foreground(out.Color("8"))
	}
	return st.String()
}

// SetDefault installs a logger writing to w at [UserLevel]
// as the [slog] default logger.
func SetDefault(w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(w, UserLevel)))
}
