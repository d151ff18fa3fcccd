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

// Package ubisoft finds games installed through Ubisoft Connect.
package ubisoft

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
	"gopkg.in/yaml.v3"
)

const (
	ProbeID        = "ubisoft"
	launcherRegKey = `SOFTWARE\WOW6432Node\Ubisoft\Launcher`
	installsRegKey = launcherRegKey + `\Installs`
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
	return platforms.UbisoftConnect
}

func (p *Probe) Supported() bool {
	return p.deps.Env.IsWindows()
}

type settings struct {
	Misc struct {
		GameInstallationPath string `yaml:"game_installation_path"`
	} `yaml:"misc"`
}

// settingsRoot reads the library folder chosen in the launcher settings.
func (p *Probe) settingsRoot() string {
	path := installroot.Expand(p.deps.Env,
		filepath.Join("%LOCALAPPDATA%", "Ubisoft Game Launcher", "settings.yml"))
	if path == "" {
		return ""
	}
	data, err := afero.ReadFile(p.deps.Env.Fs, path)
	if err != nil {
		return ""
	}
	var s settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to parse ubisoft settings")
		return ""
	}
	return cleanDir(s.Misc.GameInstallationPath)
}

func (p *Probe) libraryRoots() []string {
	launcher := p.deps.Launcher(ProbeID)
	defaults := []string{
		p.settingsRoot(),
		filepath.Join("%ProgramFiles(x86)%", "Ubisoft", "Ubisoft Game Launcher", "games"),
	}
	return installroot.Find(p.deps.Env, installroot.Query{
		Override: launcher.InstallDir,
		Registry: []installroot.RegValue{{
			Hive:   hostenv.LocalMachine,
			Path:   launcherRegKey,
			Name:   "InstallDir",
			Suffix: "games",
		}},
		Defaults: append(defaults, launcher.ExtraDirs...),
	})
}

func (p *Probe) WatchPaths() []string {
	if !p.Supported() {
		return nil
	}
	return p.libraryRoots()
}

// Scan reads the launcher's registry installs, then walks the library
// folders for the rest.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	env := p.deps.Env
	var found []platforms.Candidate
	for _, id := range env.Registry.SubKeys(hostenv.LocalMachine, installsRegKey) {
		if platforms.Canceled(ctx) {
			break
		}
		v, _ := env.Registry.GetString(hostenv.LocalMachine, installsRegKey+`\`+id, "InstallDir")
		dir := cleanDir(v)
		if dir == "" || !env.DirExists(dir) {
			continue
		}
		found = append(found, platforms.Candidate{
			Platform:       platforms.UbisoftConnect,
			Source:         platforms.SourceRegistry,
			Key:            id,
			Name:           filepath.Base(dir),
			InstallPath:    dir,
			ExecutablePath: p.deps.Resolver.Resolve(dir),
		})
	}

	known := make([]string, 0, len(found))
	for i := range found {
		known = append(known, found[i].InstallPath)
	}
	walked, err := dirscan.Scan(ctx, p.deps, p.libraryRoots(), dirscan.Options{
		Platform: platforms.UbisoftConnect,
		Known:    known,
	})
	return append(found, walked...), err
}

// cleanDir tidies the forward-slash paths with trailing separators the
// launcher writes.
func cleanDir(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return filepath.Clean(filepath.FromSlash(s))
}
