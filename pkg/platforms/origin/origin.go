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

// Package origin finds games installed through Origin or the EA app.
package origin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/dirscan"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/installroot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const ProbeID = "origin"

type Probe struct {
	deps *platforms.Deps
}

var (
	_ platforms.Probe   = (*Probe)(nil)
	_ platforms.Watcher = (*Probe)(nil)
)

func New(deps *platforms.Deps) *Probe {
	return &Probe{deps: deps}
}

func (*Probe) ID() string {
	return ProbeID
}

func (*Probe) Platform() platforms.ID {
	return platforms.Origin
}

func (p *Probe) Supported() bool {
	return p.deps.Env.IsWindows()
}

func (p *Probe) localContentDir() string {
	return installroot.First(p.deps.Env, installroot.Query{
		Defaults: []string{filepath.Join("%ProgramData%", "Origin", "LocalContent")},
	})
}

func (p *Probe) libraryRoots() []string {
	launcher := p.deps.Launcher(ProbeID)
	return installroot.Find(p.deps.Env, installroot.Query{
		Override: launcher.InstallDir,
		Defaults: append([]string{
			filepath.Join("%ProgramFiles(x86)%", "Origin Games"),
			filepath.Join("%ProgramFiles%", "EA Games"),
		}, launcher.ExtraDirs...),
	})
}

func (p *Probe) WatchPaths() []string {
	if !p.Supported() {
		return nil
	}
	if dir := p.localContentDir(); dir != "" {
		return []string{dir}
	}
	return nil
}

// Scan reads the LocalContent .mfst manifests, then walks the Origin and
// EA library folders for installs without one.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	var errs []error
	var found []platforms.Candidate
	if dir := p.localContentDir(); dir != "" {
		manifests, err := p.readLocalContent(ctx, dir)
		if err != nil {
			errs = append(errs, err)
		}
		found = manifests
	}

	known := make([]string, 0, len(found))
	for i := range found {
		known = append(known, found[i].InstallPath)
	}
	walked, err := dirscan.Scan(ctx, p.deps, p.libraryRoots(), dirscan.Options{
		Platform: platforms.Origin,
		Known:    known,
	})
	if err != nil {
		errs = append(errs, err)
	}

	return append(found, walked...), errors.Join(errs...)
}

func (p *Probe) readLocalContent(ctx context.Context, dir string) ([]platforms.Candidate, error) {
	fs := p.deps.Env.Fs
	titles, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", platforms.ErrPartialRead, dir, err)
	}

	var (
		found []platforms.Candidate
		errs  []error
	)
	for _, title := range titles {
		if platforms.Canceled(ctx) {
			break
		}
		if !title.IsDir() {
			continue
		}

		files, _ := afero.Glob(fs, filepath.Join(dir, title.Name(), "*.mfst"))
		for _, mf := range files {
			c, ok, err := p.readManifest(mf, title.Name())
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if ok {
				found = append(found, c)
				break
			}
		}
	}
	return found, errors.Join(errs...)
}

// readManifest parses a URL-query encoded .mfst file. Manifests without an
// install path describe content that is not installed.
func (p *Probe) readManifest(path, title string) (platforms.Candidate, bool, error) {
	data, err := afero.ReadFile(p.deps.Env.Fs, path)
	if err != nil {
		return platforms.Candidate{}, false, fmt.Errorf("%w: %s: %w", platforms.ErrPartialRead, path, err)
	}

	q, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(string(data)), "?"))
	if err != nil {
		return platforms.Candidate{}, false, fmt.Errorf("%w: %s: %w", platforms.ErrMalformed, path, err)
	}

	dir := strings.TrimSpace(q.Get("dipinstallpath"))
	if dir == "" {
		log.Debug().Str("path", path).Msg("origin manifest without install path")
		return platforms.Candidate{}, false, nil
	}
	dir = filepath.Clean(dir)

	c := platforms.Candidate{
		Platform:    platforms.Origin,
		Source:      platforms.SourceManifest,
		Key:         q.Get("id"),
		Name:        title,
		InstallPath: dir,
	}
	if p.deps.Env.DirExists(dir) {
		c.ExecutablePath = p.deps.Resolver.Resolve(dir)
	}
	return c, true, nil
}
