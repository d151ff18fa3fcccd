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

// Package epic finds games installed through the Epic Games Launcher.
package epic

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/dirscan"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/installroot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"gopkg.in/ini.v1"
)

const ProbeID = "epic"

// Probe reads the launcher's .item manifests.
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
	return platforms.Epic
}

func (p *Probe) Supported() bool {
	return p.deps.Env.IsWindows()
}

// ManifestsDir returns the folder holding the launcher's .item files.
func (p *Probe) ManifestsDir() string {
	env := p.deps.Env
	return installroot.First(env, installroot.Query{
		Registry: []installroot.RegValue{{
			Hive:   hostenv.LocalMachine,
			Path:   `SOFTWARE\WOW6432Node\Epic Games\EpicGamesLauncher`,
			Name:   "AppDataPath",
			Suffix: "Manifests",
		}},
		Defaults: []string{
			filepath.Join("%ProgramData%", "Epic", "EpicGamesLauncher", "Data", "Manifests"),
		},
	})
}

func (p *Probe) WatchPaths() []string {
	if !p.Supported() {
		return nil
	}
	if dir := p.ManifestsDir(); dir != "" {
		return []string{dir}
	}
	return nil
}

// Scan returns installed games from the manifests, then launcher records
// for installs that lost their manifest. With neither, the default library
// folder is walked.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	var (
		found []platforms.Candidate
		errs  []error
	)

	if dir := p.ManifestsDir(); dir != "" {
		items, err := p.readManifests(ctx, dir)
		if err != nil {
			errs = append(errs, err)
		}
		found = append(found, items...)
	}

	installed, err := p.readLauncherInstalled(found)
	if err != nil {
		errs = append(errs, err)
	}
	found = append(found, installed...)

	if len(found) == 0 && !platforms.Canceled(ctx) {
		roots := p.libraryRoots()
		walked, err := dirscan.Scan(ctx, p.deps, roots, dirscan.Options{Platform: platforms.Epic})
		if err != nil {
			errs = append(errs, err)
		}
		found = append(found, walked...)
	}

	return found, errors.Join(errs...)
}

func (p *Probe) readManifests(ctx context.Context, dir string) ([]platforms.Candidate, error) {
	fs := p.deps.Env.Fs
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", platforms.ErrPartialRead, dir, err)
	}

	var (
		found []platforms.Candidate
		errs  []error
	)
	for _, e := range entries {
		if platforms.Canceled(ctx) {
			break
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".item") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", platforms.ErrPartialRead, path, err))
			continue
		}
		if !gjson.ValidBytes(data) {
			errs = append(errs, fmt.Errorf("%w: %s is not valid json", platforms.ErrMalformed, path))
			continue
		}

		c, ok := p.fromManifest(gjson.ParseBytes(data))
		if !ok {
			log.Debug().Str("path", path).Msg("skipping epic manifest")
			continue
		}
		found = append(found, c)
	}
	return found, errors.Join(errs...)
}

func (p *Probe) fromManifest(item gjson.Result) (platforms.Candidate, bool) {
	if item.Get("bIsIncompleteInstall").Bool() {
		return platforms.Candidate{}, false
	}
	appName := item.Get("AppName").String()
	if main := item.Get("MainGameAppName").String(); main != "" && !strings.EqualFold(main, appName) {
		return platforms.Candidate{}, false
	}
	for _, cat := range item.Get("AppCategories").Array() {
		if strings.EqualFold(cat.String(), "addons") {
			return platforms.Candidate{}, false
		}
	}

	installPath := strings.TrimSpace(item.Get("InstallLocation").String())
	if installPath == "" {
		return platforms.Candidate{}, false
	}

	c := platforms.Candidate{
		Platform:    platforms.Epic,
		Source:      platforms.SourceManifest,
		Key:         appName,
		Name:        item.Get("DisplayName").String(),
		InstallPath: installPath,
		SizeBytes:   item.Get("InstallSize").Int(),
	}
	if launch := item.Get("LaunchExecutable").String(); launch != "" {
		exe := filepath.Join(installPath, launch)
		if p.deps.Env.FileExists(exe) {
			c.ExecutablePath = exe
		}
	}
	if c.ExecutablePath == "" && p.deps.Env.DirExists(installPath) {
		c.ExecutablePath = p.deps.Resolver.Resolve(installPath)
	}
	return c, true
}

// readLauncherInstalled reads LauncherInstalled.dat and returns the
// installs not already covered by known.
func (p *Probe) readLauncherInstalled(known []platforms.Candidate) ([]platforms.Candidate, error) {
	path := installroot.Expand(p.deps.Env,
		filepath.Join("%ProgramData%", "Epic", "UnrealEngineLauncher", "LauncherInstalled.dat"))
	if path == "" || !p.deps.Env.FileExists(path) {
		return nil, nil
	}

	data, err := afero.ReadFile(p.deps.Env.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", platforms.ErrPartialRead, path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid json", platforms.ErrMalformed, path)
	}

	var found []platforms.Candidate
	gjson.GetBytes(data, "InstallationList").ForEach(func(_, entry gjson.Result) bool {
		dir := strings.TrimSpace(entry.Get("InstallLocation").String())
		if dir == "" || !p.deps.Env.DirExists(dir) {
			return true
		}
		for i := range known {
			if helpers.PathsOverlap(known[i].InstallPath, dir) {
				return true
			}
		}
		for i := range found {
			if helpers.PathsOverlap(found[i].InstallPath, dir) {
				return true
			}
		}
		found = append(found, platforms.Candidate{
			Platform:       platforms.Epic,
			Source:         platforms.SourceRegistry,
			Key:            entry.Get("AppName").String(),
			Name:           filepath.Base(dir),
			InstallPath:    dir,
			ExecutablePath: p.deps.Resolver.Resolve(dir),
		})
		return true
	})
	return found, nil
}

// libraryRoots returns the default install folder from the launcher's
// GameUserSettings.ini, then the stock location.
func (p *Probe) libraryRoots() []string {
	env := p.deps.Env
	q := installroot.Query{
		Override: p.deps.Launcher(ProbeID).InstallDir,
		Defaults: []string{filepath.Join("%ProgramFiles%", "Epic Games")},
	}
	if dir := p.defaultInstallLocation(); dir != "" {
		q.Defaults = append([]string{dir}, q.Defaults...)
	}
	q.Defaults = append(q.Defaults, p.deps.Launcher(ProbeID).ExtraDirs...)
	return installroot.Find(env, q)
}

func (p *Probe) defaultInstallLocation() string {
	path := installroot.Expand(p.deps.Env, filepath.Join(
		"%LOCALAPPDATA%", "EpicGamesLauncher", "Saved", "Config", "Windows", "GameUserSettings.ini"))
	if path == "" {
		return ""
	}
	data, err := afero.ReadFile(p.deps.Env.Fs, path)
	if err != nil {
		return ""
	}
	f, err := ini.Load(data)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to parse epic settings")
		return ""
	}
	return strings.TrimSpace(f.Section("Launcher").Key("DefaultAppInstallLocation").String())
}
