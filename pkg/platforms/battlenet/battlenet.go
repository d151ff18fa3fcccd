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

// Package battlenet finds Blizzard games installed through the Battle.net
// app.
package battlenet

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/dirscan"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/installroot"
	"github.com/rs/zerolog/log"
)

const (
	ProbeID         = "battlenet"
	uninstallRegKey = `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`
)

type Probe struct {
	deps *platforms.Deps
}

var _ platforms.Probe = (*Probe)(nil)

func New(deps *platforms.Deps) *Probe {
	return &Probe{deps: deps}
}

func (*Probe) ID() string {
	return ProbeID
}

func (*Probe) Platform() platforms.ID {
	return platforms.BattleNet
}

func (p *Probe) Supported() bool {
	return p.deps.Env.IsWindows()
}

// Scan reads Blizzard's uninstall entries, then looks for known Blizzard
// title folders under Program Files.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	found := p.fromUninstall(ctx)

	known := make([]string, 0, len(found))
	for i := range found {
		known = append(known, found[i].InstallPath)
	}

	launcher := p.deps.Launcher(ProbeID)
	roots := installroot.Find(p.deps.Env, installroot.Query{
		Override: launcher.InstallDir,
		Defaults: append([]string{"%ProgramFiles(x86)%", "%ProgramFiles%"}, launcher.ExtraDirs...),
	})
	walked, err := dirscan.Scan(ctx, p.deps, roots, dirscan.Options{
		Platform: platforms.BattleNet,
		Accept:   p.deps.Tables.IsBattleNetTitle,
		Known:    known,
	})
	return append(found, walked...), err
}

func (p *Probe) fromUninstall(ctx context.Context) []platforms.Candidate {
	env := p.deps.Env
	reg := env.Registry

	var found []platforms.Candidate
	for _, sub := range reg.SubKeys(hostenv.LocalMachine, uninstallRegKey) {
		if platforms.Canceled(ctx) {
			break
		}
		key := uninstallRegKey + `\` + sub
		publisher, _ := reg.GetString(hostenv.LocalMachine, key, "Publisher")
		if !p.deps.Tables.IsBattleNetPublisher(publisher) {
			continue
		}

		loc, _ := reg.GetString(hostenv.LocalMachine, key, "InstallLocation")
		dir := strings.TrimSpace(loc)
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if p.deps.Tables.IsDeniedDir(filepath.Base(dir)) {
			log.Debug().Str("dir", dir).Msg("skipping battle.net client entry")
			continue
		}
		if !env.DirExists(dir) {
			continue
		}

		name, _ := reg.GetString(hostenv.LocalMachine, key, "DisplayName")
		found = append(found, platforms.Candidate{
			Platform:       platforms.BattleNet,
			Source:         platforms.SourceRegistry,
			Key:            sub,
			Name:           name,
			InstallPath:    dir,
			ExecutablePath: p.deps.Resolver.Resolve(dir),
		})
	}
	return found
}
