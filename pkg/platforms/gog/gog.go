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

// Package gog finds games installed through GOG Galaxy or the offline GOG
// installers.
package gog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/dirscan"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/installroot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

const (
	ProbeID     = "gog"
	gamesRegKey = `SOFTWARE\WOW6432Node\GOG.com\Games`
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
	return platforms.GOG
}

func (p *Probe) Supported() bool {
	return p.deps.Env.IsWindows()
}

func (p *Probe) libraryRoots() []string {
	env := p.deps.Env
	launcher := p.deps.Launcher(ProbeID)
	roots := installroot.Find(env, installroot.Query{
		Override: launcher.InstallDir,
		Defaults: append([]string{
			filepath.Join("%ProgramFiles(x86)%", "GOG Galaxy", "Games"),
			filepath.Join("%ProgramFiles%", "GOG Galaxy", "Games"),
		}, launcher.ExtraDirs...),
	})
	return append(roots, installroot.OnDrives(env, "GOG Games")...)
}

func (p *Probe) WatchPaths() []string {
	if !p.Supported() {
		return nil
	}
	return p.libraryRoots()
}

// Scan reads Galaxy's registry entries, then walks the GOG library folders
// for installs the registry does not know about.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	found := p.fromRegistry(ctx)

	known := make([]string, 0, len(found))
	for i := range found {
		known = append(known, found[i].InstallPath)
	}

	walked, err := dirscan.Scan(ctx, p.deps, p.libraryRoots(), dirscan.Options{
		Platform: platforms.GOG,
		Known:    known,
		Annotate: p.annotate,
	})
	found = append(found, walked...)

	return found, err
}

func (p *Probe) fromRegistry(ctx context.Context) []platforms.Candidate {
	env := p.deps.Env
	var found []platforms.Candidate
	for _, id := range env.Registry.SubKeys(hostenv.LocalMachine, gamesRegKey) {
		if platforms.Canceled(ctx) {
			break
		}
		key := gamesRegKey + `\` + id
		dir, _ := env.Registry.GetString(hostenv.LocalMachine, key, "path")
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		name, _ := env.Registry.GetString(hostenv.LocalMachine, key, "gameName")
		if gameID, ok := env.Registry.GetString(hostenv.LocalMachine, key, "gameID"); ok && gameID != "" {
			id = gameID
		}

		exe, _ := env.Registry.GetString(hostenv.LocalMachine, key, "exe")
		exe = strings.TrimSpace(exe)
		if exe != "" && !env.FileExists(exe) {
			exe = ""
		}
		if exe == "" && env.DirExists(dir) {
			exe = p.deps.Resolver.Resolve(dir)
		}

		found = append(found, platforms.Candidate{
			Platform:       platforms.GOG,
			Source:         platforms.SourceRegistry,
			Key:            id,
			Name:           name,
			InstallPath:    dir,
			ExecutablePath: exe,
		})
	}
	return found
}

// annotate upgrades a folder holding a goggame-<id>.info file to a
// manifest-backed candidate.
func (p *Probe) annotate(dir string, c *platforms.Candidate) {
	fs := p.deps.Env.Fs
	matches, err := afero.Glob(fs, filepath.Join(dir, "goggame-*.info"))
	if err != nil || len(matches) == 0 {
		return
	}

	data, err := afero.ReadFile(fs, matches[0])
	if err != nil || !gjson.ValidBytes(data) {
		log.Warn().Str("path", matches[0]).Msg("unreadable gog info file")
		return
	}
	info := gjson.ParseBytes(data)

	c.Source = platforms.SourceManifest
	if id := info.Get("gameId").String(); id != "" {
		c.Key = id
	}
	if name := info.Get("name").String(); name != "" {
		c.Name = name
	}

	for _, task := range info.Get("playTasks").Array() {
		if !task.Get("isPrimary").Bool() {
			continue
		}
		rel := task.Get("path").String()
		if rel == "" {
			break
		}
		exe := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/")))
		if p.deps.Env.FileExists(exe) {
			c.ExecutablePath = exe
		}
		break
	}
}
