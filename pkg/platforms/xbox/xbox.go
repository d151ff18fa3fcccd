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

// Package xbox finds Xbox app and Microsoft Store games installed as MSIX
// packages.
package xbox

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/installroot"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/keywords"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	ProbeID = "xbox"
	// exeDepth bounds the executable search below a package folder.
	exeDepth = 3
)

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
	return platforms.Xbox
}

func (p *Probe) Supported() bool {
	return p.deps.Env.IsWindows()
}

type root struct {
	path      string
	xboxGames bool
}

func (p *Probe) roots() []root {
	env := p.deps.Env
	launcher := p.deps.Launcher(ProbeID)

	var roots []root
	for _, dir := range installroot.Find(env, installroot.Query{
		Override: launcher.InstallDir,
		Defaults: []string{filepath.Join("%ProgramFiles%", "WindowsApps")},
	}) {
		roots = append(roots, root{path: dir})
	}

	xg := installroot.OnDrives(env, "XboxGames")
	xg = append(xg, installroot.Find(env, installroot.Query{Defaults: launcher.ExtraDirs})...)
	for _, dir := range xg {
		roots = append(roots, root{path: dir, xboxGames: true})
	}
	return roots
}

func (p *Probe) WatchPaths() []string {
	if !p.Supported() {
		return nil
	}
	var paths []string
	for _, r := range p.roots() {
		if r.xboxGames {
			paths = append(paths, r.path)
		}
	}
	return paths
}

// Scan classifies every package folder. Deny rules win, then allow rules;
// anything else is a game only when it sits in an XboxGames library or
// ships a MicrosoftGame.Config. Games are kept even when no executable is
// found.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	var (
		found []platforms.Candidate
		errs  []error
	)
	seen := make(map[string]struct{})
	fs := p.deps.Env.Fs

	for _, r := range p.roots() {
		if platforms.Canceled(ctx) {
			break
		}

		entries, err := afero.ReadDir(fs, r.path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: listing %s: %w", platforms.ErrPartialRead, r.path, err))
			continue
		}

		for _, e := range entries {
			if platforms.Canceled(ctx) {
				break
			}
			if !e.IsDir() {
				continue
			}

			verdict := p.deps.Tables.XboxVerdict(e.Name())
			if verdict == keywords.Denied {
				continue
			}

			dir := filepath.Join(r.path, e.Name())
			info, err := readPackageInfo(fs, dir)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %w", platforms.ErrMalformed, err))
			}
			if verdict == keywords.Unknown && !r.xboxGames && !info.hasConfig {
				continue
			}

			key := familyName(e.Name())
			if key == "" {
				key = info.identity
			}
			if key == "" {
				key = e.Name()
			}
			lk := strings.ToLower(key)
			if _, dup := seen[lk]; dup {
				continue
			}
			seen[lk] = struct{}{}

			found = append(found, p.candidate(dir, e.Name(), key, &info))
		}
	}

	return found, errors.Join(errs...)
}

func (p *Probe) candidate(dir, folder, key string, info *packageInfo) platforms.Candidate {
	name := info.displayName
	if name == "" {
		name = folder
	}

	exe := ""
	if info.executable != "" && p.deps.Env.FileExists(info.executable) &&
		!p.deps.Tables.IsDeniedExecutable(filepath.Base(info.executable)) {
		exe = info.executable
	}
	if exe == "" {
		exe = p.deps.Resolver.ResolveDepth(dir, exeDepth)
	}
	if exe == "" {
		log.Debug().Str("dir", dir).Msg("xbox package has no reachable executable")
	}

	return platforms.Candidate{
		Platform:       platforms.Xbox,
		Source:         platforms.SourcePackage,
		Key:            key,
		Name:           name,
		InstallPath:    dir,
		ExecutablePath: exe,
	}
}

// familyName reduces Name_Version_Arch_ResourceId_PublisherId to the
// package family name Name_PublisherId. Other names return "".
func familyName(folder string) string {
	parts := strings.Split(folder, "_")
	if len(parts) != 5 || parts[0] == "" || parts[4] == "" {
		return ""
	}
	return parts[0] + "_" + parts[4]
}
