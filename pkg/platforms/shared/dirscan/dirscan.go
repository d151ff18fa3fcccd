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

// Package dirscan finds games by walking the immediate sub-folders of a
// storefront's game library and resolving an executable in each.
package dirscan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Options control a directory scan.
type Options struct {
	// Accept filters folders by name before any executable search. Nil
	// accepts every folder.
	Accept func(name string) bool
	// Annotate may enrich a candidate from files in its folder.
	Annotate func(dir string, c *platforms.Candidate)
	// Known holds install paths already reported by a more reliable
	// source; folders overlapping them are skipped.
	Known    []string
	Platform platforms.ID
}

// Scan walks each root's immediate sub-folders and returns one heuristic
// candidate per folder holding an executable. Missing roots are skipped.
// Roots that exist but cannot be listed are reported as partial reads.
func Scan(ctx context.Context, deps *platforms.Deps, roots []string, opts Options) ([]platforms.Candidate, error) {
	var (
		found []platforms.Candidate
		errs  []error
	)

	seen := make(map[string]struct{})
	for _, root := range roots {
		if platforms.Canceled(ctx) {
			break
		}
		if !deps.Env.DirExists(root) {
			continue
		}

		entries, err := afero.ReadDir(deps.Env.Fs, root)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: listing %s: %w", platforms.ErrPartialRead, root, err))
			continue
		}

		for _, entry := range entries {
			if platforms.Canceled(ctx) {
				break
			}
			if !entry.IsDir() || deps.Tables.IsDeniedDir(entry.Name()) {
				continue
			}
			if opts.Accept != nil && !opts.Accept(entry.Name()) {
				continue
			}

			dir := filepath.Join(root, entry.Name())
			key := helpers.NormalizePathForComparison(dir)
			if _, dup := seen[key]; dup || known(opts.Known, dir) {
				continue
			}
			seen[key] = struct{}{}

			c := platforms.Candidate{
				Platform:       opts.Platform,
				Source:         platforms.SourceHeuristic,
				Name:           entry.Name(),
				InstallPath:    dir,
				ExecutablePath: deps.Resolver.Resolve(dir),
			}
			if opts.Annotate != nil {
				opts.Annotate(dir, &c)
			}
			if c.ExecutablePath == "" {
				log.Debug().Str("dir", dir).Msg("no executable found, skipping folder")
				continue
			}
			found = append(found, c)
		}
	}

	return found, errors.Join(errs...)
}

func known(paths []string, dir string) bool {
	for _, p := range paths {
		if helpers.PathsOverlap(p, dir) {
			return true
		}
	}
	return false
}
