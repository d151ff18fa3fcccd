// GamePath Core
// Copyright (c) 2026 The GamePath AI Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of GamePath Core.
//
// GamePath Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GamePath Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GamePath Core.  If not, see <http://www.gnu.org/licenses/>.

// Package watcher triggers a rescan when launcher manifest folders change.
// Bursts of events are debounced into a single rescan.
package watcher

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const DefaultDebounce = 2 * time.Second

type Option func(*Watcher)

func WithClock(clock clockwork.Clock) Option {
	return func(w *Watcher) {
		w.clock = clock
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

type Watcher struct {
	clock    clockwork.Clock
	fsw      *fsnotify.Watcher
	trigger  func(context.Context)
	paths    []string
	debounce time.Duration
}

// PathsOf collects the watch folders of every probe that has them.
func PathsOf(probes []platforms.Probe) []string {
	var paths []string
	for _, p := range probes {
		w, ok := p.(platforms.Watcher)
		if !ok {
			continue
		}
		for _, path := range w.WatchPaths() {
			if !slices.ContainsFunc(paths, func(s string) bool {
				return helpers.NormalizePathForComparison(s) == helpers.NormalizePathForComparison(path)
			}) {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

// New watches the given folders. Folders that do not exist are skipped.
func New(paths []string, trigger func(context.Context), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		clock:    clockwork.NewRealClock(),
		fsw:      fsw,
		trigger:  trigger,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, path := range paths {
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			log.Debug().Str("path", path).Msg("skipping missing watch folder")
			continue
		}
		if err := fsw.Add(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to watch folder")
			continue
		}
		w.paths = append(w.paths, path)
	}
	return w, nil
}

// Paths returns the folders actually being watched.
func (w *Watcher) Paths() []string {
	return slices.Clone(w.paths)
}

// Run delivers debounced rescans until ctx is done, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			log.Error().Err(err).Msg("error closing file watcher")
		}
	}()

	log.Info().Strs("paths", w.paths).Msg("watching launcher manifests")

	timer := w.clock.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			log.Debug().Str("event", event.String()).Msg("manifest folder changed")
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("error in file watcher")
		case <-timer.Chan():
			log.Info().Msg("launcher manifests changed, rescanning")
			w.trigger(ctx)
		}
	}
}
