// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package climodule

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Change is a change of a module executable in a search path.
type Change struct {

	// Path is the path of the executable.
	Path string

	// Removed is whether the executable was removed or renamed,
	// rather than added or modified.
	Removed bool
}

// Watcher reports changes of module executables in the search paths,
// so that the host can load or unload them on its own goroutine.
type Watcher struct {
	w *fsnotify.Watcher
}

// NewWatcher returns a new watcher of the given search paths.
// Paths that can not be watched are skipped with a warning.
func NewWatcher(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			slog.Warn("climodule: not watching search path", "path", p, "err", err)
		}
	}
	return &Watcher{w: w}, nil
}

// Run calls report for every change until the context is done
// or the watcher is closed.
func (wt *Watcher) Run(ctx context.Context, report func(c Change)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			switch {
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				report(Change{Path: ev.Name, Removed: true})
			case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Chmod):
				if IsExecutable(ev.Name) {
					report(Change{Path: ev.Name})
				}
			}
		case err, ok := <-wt.w.Errors:
			if !ok {
				return
			}
			slog.Error("climodule: watching search paths", "err", err)
		}
	}
}

// Close stops watching.
func (wt *Watcher) Close() error {
	return wt.w.Close()
}
