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

package steam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	pathpkg "path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/GamePathAI/gamepath-core/internal/vdfbinary"
	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const ShortcutsProbeID = "steam-shortcuts"

// ShortcutsProbe reports the non-Steam games users added to their Steam
// library. They are not tied to a storefront, so they carry the Other
// platform.
type ShortcutsProbe struct {
	deps *platforms.Deps
}

var _ platforms.Probe = (*ShortcutsProbe)(nil)

func NewShortcuts(deps *platforms.Deps) *ShortcutsProbe {
	return &ShortcutsProbe{deps: deps}
}

func (*ShortcutsProbe) ID() string {
	return ShortcutsProbeID
}

func (*ShortcutsProbe) Platform() platforms.ID {
	return platforms.Other
}

func (p *ShortcutsProbe) Supported() bool {
	return supportedOS(p.deps.Env.GOOS)
}

func (p *ShortcutsProbe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if !p.Supported() {
		return nil, nil
	}

	root := FindRoot(p.deps)
	if root == "" {
		return nil, nil
	}

	fs := p.deps.Env.Fs
	userdataDir := filepath.Join(root, "userdata")
	userDirs, err := afero.ReadDir(fs, userdataDir)
	if err != nil {
		log.Debug().Err(err).Str("path", userdataDir).Msg("no steam userdata")
		return nil, nil
	}

	var (
		found []platforms.Candidate
		errs  []error
	)
	seen := make(map[uint32]struct{})
	for _, userDir := range userDirs {
		if platforms.Canceled(ctx) {
			break
		}
		if !userDir.IsDir() {
			continue
		}

		path := filepath.Join(userdataDir, userDir.Name(), "config", "shortcuts.vdf")
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			continue
		}

		shortcuts, err := vdfbinary.ParseShortcuts(bytes.NewReader(data))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", platforms.ErrMalformed, path, err))
		}

		log.Debug().
			Str("userId", userDir.Name()).
			Int("count", len(shortcuts)).
			Msg("parsed shortcuts for user")

		for i := range shortcuts {
			s := &shortcuts[i]
			if strings.TrimSpace(s.AppName) == "" {
				continue
			}
			if _, dup := seen[s.AppID]; dup {
				continue
			}
			seen[s.AppID] = struct{}{}
			c, ok := p.candidate(s)
			if !ok {
				log.Debug().
					Str("name", s.AppName).
					Str("startDir", s.StartDir).
					Msg("skipping shortcut without a usable folder")
				continue
			}
			found = append(found, c)
		}
	}

	return found, errors.Join(errs...)
}

// candidate maps a shortcut to a candidate. The start folder becomes the
// install path unless it is a filesystem root or the home folder, which
// would contain unrelated installs; the executable's folder, or the
// executable itself, is used then.
func (p *ShortcutsProbe) candidate(s *vdfbinary.Shortcut) (platforms.Candidate, bool) {
	exe := unquote(s.Exe)
	dir := unquote(s.StartDir)
	if dir == "" || p.broadDir(dir) {
		if exe == "" {
			return platforms.Candidate{}, false
		}
		dir = filepath.Dir(exe)
		if p.broadDir(dir) {
			dir = exe
		}
	}
	var lastPlayed *time.Time
	if s.LastPlayTime > 0 {
		lp := time.Unix(int64(s.LastPlayTime), 0).UTC()
		lastPlayed = &lp
	}
	return platforms.Candidate{
		Platform:       platforms.Other,
		Source:         platforms.SourceHeuristic,
		Key:            "steam-shortcut-" + strconv.FormatUint(uint64(s.AppID), 10),
		Name:           s.AppName,
		InstallPath:    dir,
		ExecutablePath: exe,
		LastPlayed:     lastPlayed,
	}, true
}

func (p *ShortcutsProbe) broadDir(dir string) bool {
	norm := helpers.NormalizePathForComparison(dir)
	switch {
	case norm == "", norm == ".", norm == "/":
		return true
	case len(norm) <= 3 && len(norm) >= 2 && norm[1] == ':':
		return true
	}
	home := helpers.NormalizePathForComparison(p.deps.Env.HomeDir)
	return home != "" && (norm == home || norm == pathpkg.Dir(home))
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
