// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads file-backed shaders when their files change on disk.
// Reloaded shaders are marked dirty in the shader store, so the render
// goroutine uploads them again on its next frame.
type Watcher struct {
	assets  *Assets
	watcher *fsnotify.Watcher

	// OnReload is called after a file change reloaded at least one
	// shader. It is called from the watcher goroutine.
	OnReload func(path string, n int)
}

// NewWatcher returns a new [Watcher] for the given assets.
func NewWatcher(as *Assets) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{assets: as, watcher: fw}, nil
}

// Add starts watching the directory of every file-backed shader,
// plus the given extra directories.
func (wt *Watcher) Add(dirs ...string) error {
	seen := map[string]bool{}
	for _, sh := range wt.assets.Shaders.All() {
		if sh.Path != "" {
			seen[filepath.Dir(sh.Path)] = true
		}
	}
	for _, d := range dirs {
		seen[d] = true
	}
	for d := range seen {
		if err := wt.watcher.Add(d); err != nil {
			return err
		}
	}
	return nil
}

// Run processes file events until the context is canceled
// or the watcher is closed.
func (wt *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return wt.watcher.Close()
		case ev, ok := <-wt.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			n, err := wt.assets.ReloadShaderFile(ev.Name)
			if err != nil {
				slog.Warn("assets.Watcher.Run", "path", ev.Name, "err", err)
				continue
			}
			if n > 0 && wt.OnReload != nil {
				wt.OnReload(ev.Name, n)
			}
		case err, ok := <-wt.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("assets.Watcher.Run", "err", err)
		}
	}
}

// Close stops watching.
func (wt *Watcher) Close() error {
	return wt.watcher.Close()
}
