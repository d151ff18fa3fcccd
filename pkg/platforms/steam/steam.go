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

// Package steam finds games installed through the Steam client by reading
// its library folders and app manifests.
package steam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/dirscan"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	ProbeID = "steam"
	// IconURLFormat is the CDN header image of an app id.
	IconURLFormat = "https://cdn.cloudflare.steamstatic.com/steam/apps/%s/header.jpg"
)

// Probe reads Steam app manifests.
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
	return platforms.Steam
}

func (p *Probe) Supported() bool {
	return supportedOS(p.deps.Env.GOOS)
}

func supportedOS(goos string) bool {
	switch goos {
	case "windows", "linux", "darwin":
		return true
	default:
		return false
	}
}

// WatchPaths returns the steamapps folders of every library.
func (p *Probe) WatchPaths() []string {
	if !p.Supported() {
		return nil
	}
	root := FindRoot(p.deps)
	if root == "" {
		return nil
	}
	libs, _ := Libraries(p.deps.Env.Fs, root, p.deps.Launcher(ProbeID).ExtraDirs)
	paths := make([]string, 0, len(libs))
	for _, lib := range libs {
		paths = append(paths, steamAppsDir(p.deps.Env.Fs, lib))
	}
	return paths
}

// Scan returns one candidate per installed app. Tool depots such as
// Proton and the Steam runtimes are skipped. When no library holds a
// manifest the steamapps/common folders are walked instead.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	root := FindRoot(p.deps)
	if root == "" {
		log.Debug().Msg("steam not installed")
		return nil, nil
	}
	log.Debug().Str("root", root).Msg("scanning steam libraries")

	fs := p.deps.Env.Fs
	libs, err := Libraries(fs, root, p.deps.Launcher(ProbeID).ExtraDirs)
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	var (
		found     []platforms.Candidate
		manifests int
	)
	for _, lib := range libs {
		if platforms.Canceled(ctx) {
			break
		}

		appsDir := steamAppsDir(fs, lib)
		files, err := manifestFiles(fs, appsDir)
		if err != nil {
			log.Debug().Err(err).Str("library", lib).Msg("skipping steam library")
			continue
		}

		for _, mf := range files {
			if platforms.Canceled(ctx) {
				break
			}
			manifests++

			am, err := ReadAppManifest(fs, mf)
			if err != nil {
				log.Warn().Err(err).Msg("skipping steam manifest")
				errs = append(errs, err)
				continue
			}
			if p.deps.Tables.SteamExcluded(am.AppID, am.Name) {
				log.Debug().Str("appid", am.AppID).Str("name", am.Name).Msg("skipping steam tool app")
				continue
			}

			found = append(found, p.candidate(appsDir, &am))
		}
	}

	if manifests == 0 && !platforms.Canceled(ctx) {
		heuristic, err := p.walkCommon(ctx, libs)
		if err != nil {
			errs = append(errs, err)
		}
		found = append(found, heuristic...)
	}

	log.Debug().Int("count", len(found)).Msg("steam scan complete")
	return found, errors.Join(errs...)
}

func (p *Probe) candidate(appsDir string, am *AppManifest) platforms.Candidate {
	installPath := filepath.Join(appsDir, "common", am.InstallDir)

	c := platforms.Candidate{
		Platform:    platforms.Steam,
		Source:      platforms.SourceManifest,
		Key:         am.AppID,
		Name:        am.Name,
		InstallPath: installPath,
		IconURL:     fmt.Sprintf(IconURLFormat, am.AppID),
		SizeBytes:   am.SizeOnDisk,
		LastPlayed:  am.LastPlayed,
	}
	if ok, _ := afero.DirExists(p.deps.Env.Fs, installPath); ok {
		c.ExecutablePath = p.deps.Resolver.Resolve(installPath)
	} else {
		log.Debug().Str("path", installPath).Msg("steam install folder missing")
	}
	return c
}

func (p *Probe) walkCommon(ctx context.Context, libs []string) ([]platforms.Candidate, error) {
	roots := make([]string, 0, len(libs))
	for _, lib := range libs {
		roots = append(roots, filepath.Join(steamAppsDir(p.deps.Env.Fs, lib), "common"))
	}

	found, err := dirscan.Scan(ctx, p.deps, roots, dirscan.Options{
		Platform: platforms.Steam,
		Accept: func(name string) bool {
			return !p.deps.Tables.SteamExcluded("", name)
		},
	})
	if err != nil {
		return found, fmt.Errorf("steamapps/common walk: %w", err)
	}
	return found, nil
}
