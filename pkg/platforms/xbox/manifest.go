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

package xbox

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	gameConfigFile = "MicrosoftGame.Config"
	appxManifest   = "AppxManifest.xml"
)

type gameConfig struct {
	Identity struct {
		Name string `xml:"Name,attr"`
	} `xml:"Identity"`
	ShellVisuals struct {
		DefaultDisplayName string `xml:"DefaultDisplayName,attr"`
	} `xml:"ShellVisuals"`
	Executables []struct {
		Name string `xml:"Name,attr"`
	} `xml:"ExecutableList>Executable"`
}

type appxPackage struct {
	Identity struct {
		Name string `xml:"Name,attr"`
	} `xml:"Identity"`
	Properties struct {
		DisplayName string `xml:"DisplayName"`
	} `xml:"Properties"`
	Applications []struct {
		Executable string `xml:"Executable,attr"`
	} `xml:"Applications>Application"`
}

// packageInfo is what the package manifests say about an install.
type packageInfo struct {
	identity    string
	displayName string
	executable  string
	hasConfig   bool
}

// readPackageInfo reads MicrosoftGame.Config, then AppxManifest.xml, from
// dir and its Content sub-folder. Missing files are not an error.
func readPackageInfo(fs afero.Fs, dir string) (packageInfo, error) {
	var info packageInfo
	for _, base := range []string{dir, filepath.Join(dir, "Content")} {
		data, err := afero.ReadFile(fs, filepath.Join(base, gameConfigFile))
		if err != nil {
			continue
		}
		var cfg gameConfig
		if err := xml.Unmarshal(data, &cfg); err != nil {
			return info, fmt.Errorf("failed to parse %s: %w", filepath.Join(base, gameConfigFile), err)
		}
		info.hasConfig = true
		info.identity = cfg.Identity.Name
		info.displayName = usableName(cfg.ShellVisuals.DefaultDisplayName)
		if len(cfg.Executables) > 0 && cfg.Executables[0].Name != "" {
			info.executable = filepath.Join(base, filepath.FromSlash(cfg.Executables[0].Name))
		}
		break
	}

	for _, base := range []string{dir, filepath.Join(dir, "Content")} {
		data, err := afero.ReadFile(fs, filepath.Join(base, appxManifest))
		if err != nil {
			continue
		}
		var pkg appxPackage
		if err := xml.Unmarshal(data, &pkg); err != nil {
			return info, fmt.Errorf("failed to parse %s: %w", filepath.Join(base, appxManifest), err)
		}
		if info.identity == "" {
			info.identity = pkg.Identity.Name
		}
		if info.displayName == "" {
			info.displayName = usableName(pkg.Properties.DisplayName)
		}
		if info.executable == "" && len(pkg.Applications) > 0 && pkg.Applications[0].Executable != "" {
			info.executable = filepath.Join(base, filepath.FromSlash(pkg.Applications[0].Executable))
		}
		break
	}
	return info, nil
}

// usableName drops ms-resource references, which need the package's
// resource index to resolve.
func usableName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "ms-resource:") {
		return ""
	}
	return s
}
