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
	"fmt"
	pathpkg "path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/spf13/afero"
)

// AppManifest holds the fields read from an appmanifest_<id>.acf file.
type AppManifest struct {
	LastPlayed *time.Time
	AppID      string
	Name       string
	InstallDir string
	SizeOnDisk int64
}

// ReadAppManifest parses a single app manifest.
func ReadAppManifest(fs afero.Fs, path string) (AppManifest, error) {
	m, err := readVDF(fs, path)
	if err != nil {
		return AppManifest{}, fmt.Errorf("%w: %w", platforms.ErrMalformed, err)
	}

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		return AppManifest{}, fmt.Errorf("%w: appstate missing in %s", platforms.ErrMalformed, path)
	}

	appID, _ := appState["appid"].(string)
	name, _ := appState["name"].(string)
	installDir, _ := appState["installdir"].(string)
	if strings.TrimSpace(appID) == "" || strings.TrimSpace(installDir) == "" {
		return AppManifest{}, fmt.Errorf("%w: appid or installdir missing in %s", platforms.ErrMalformed, path)
	}

	am := AppManifest{
		AppID:      strings.TrimSpace(appID),
		Name:       strings.TrimSpace(name),
		InstallDir: unescapePath(installDir),
	}
	if !validInstallDir(am.InstallDir) {
		return AppManifest{}, fmt.Errorf(
			"%w: installdir %q of app %s is not a folder under common in %s",
			platforms.ErrMalformed, am.InstallDir, am.AppID, path,
		)
	}
	if s, ok := appState["sizeondisk"].(string); ok {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			am.SizeOnDisk = n
		}
	}
	if s, ok := appState["lastplayed"].(string); ok {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			lp := time.Unix(n, 0).UTC()
			am.LastPlayed = &lp
		}
	}
	return am, nil
}

// validInstallDir reports whether installdir names a single folder below
// steamapps/common. "." or ".." would make the install path the common
// folder itself or one of its parents.
func validInstallDir(dir string) bool {
	clean := pathpkg.Clean(strings.ReplaceAll(strings.TrimSpace(dir), `\`, "/"))
	switch {
	case clean == "." || clean == "/" || clean == "..":
		return false
	case strings.HasPrefix(clean, "../"), strings.HasPrefix(clean, "/"):
		return false
	case len(clean) >= 2 && clean[1] == ':':
		return false
	}
	return true
}

// manifestFiles lists the app manifests of a steamapps folder in name
// order.
func manifestFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if e.IsDir() || !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
