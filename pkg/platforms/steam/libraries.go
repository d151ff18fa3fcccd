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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Libraries returns the library folders of a Steam install: the client
// folder itself, then every entry of libraryfolders.vdf in index order,
// then extra. Folders that do not exist are dropped. A malformed
// libraryfolders.vdf is reported but the root library is still returned.
func Libraries(fs afero.Fs, root string, extra []string) ([]string, error) {
	libs := []string{root}
	var errs []error

	vdfPath := filepath.Join(steamAppsDir(fs, root), "libraryfolders.vdf")
	m, err := readVDF(fs, vdfPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debug().Str("path", vdfPath).Msg("no libraryfolders.vdf")
	case err != nil:
		errs = append(errs, fmt.Errorf("%w: %w", platforms.ErrMalformed, err))
	default:
		libs = append(libs, libraryPaths(m)...)
	}
	libs = append(libs, extra...)

	var out []string
	seen := make(map[string]struct{}, len(libs))
	for _, lib := range libs {
		key := helpers.NormalizePathForComparison(lib)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if ok, _ := afero.DirExists(fs, lib); !ok {
			log.Debug().Str("path", lib).Msg("skipping missing steam library")
			continue
		}
		out = append(out, lib)
	}

	return out, errors.Join(errs...)
}

// libraryPaths reads the library entries of a libraryfolders.vdf document.
// Newer files hold a map per library with a "path" key, older ones map
// the index straight to the path.
func libraryPaths(m map[string]any) []string {
	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(lfs))
	for k := range lfs {
		if _, err := strconv.Atoi(k); err == nil {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := lfs[k].(type) {
		case string:
			paths = append(paths, unescapePath(v))
		case map[string]any:
			if p, ok := v["path"].(string); ok {
				paths = append(paths, unescapePath(p))
			} else {
				log.Warn().Msgf("library %s has no path", k)
			}
		}
	}
	return paths
}
