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
	"path/filepath"

	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/installroot"
	"github.com/spf13/afero"
)

// FlatpakSteamID is the Flatpak application id of the Steam client.
const FlatpakSteamID = "com.valvesoftware.Steam"

func rootQuery(deps *platforms.Deps) installroot.Query {
	q := installroot.Query{Override: deps.Launcher(ProbeID).InstallDir}

	switch deps.Env.GOOS {
	case "windows":
		q.Registry = []installroot.RegValue{
			{Hive: hostenv.LocalMachine, Path: `SOFTWARE\Wow6432Node\Valve\Steam`, Name: "InstallPath"},
			{Hive: hostenv.LocalMachine, Path: `SOFTWARE\Valve\Steam`, Name: "InstallPath"},
			{Hive: hostenv.CurrentUser, Path: `Software\Valve\Steam`, Name: "SteamPath"},
		}
		q.Defaults = []string{
			filepath.Join("%ProgramFiles(x86)%", "Steam"),
			filepath.Join("%ProgramFiles%", "Steam"),
		}
	case "darwin":
		q.Defaults = []string{
			filepath.Join("~", "Library", "Application Support", "Steam"),
		}
	default:
		q.Defaults = []string{
			filepath.Join("~", ".steam", "steam"),
			filepath.Join("~", ".local", "share", "Steam"),
			filepath.Join("~", ".var", "app", FlatpakSteamID, ".steam", "steam"),
			filepath.Join("~", "snap", "steam", "common", ".steam", "steam"),
		}
	}
	return q
}

// FindRoot returns the Steam client folder, or "" when Steam is not
// installed.
func FindRoot(deps *platforms.Deps) string {
	return installroot.First(deps.Env, rootQuery(deps))
}

// steamAppsDir finds the steamapps folder of a library, which older clients
// spell SteamApps.
func steamAppsDir(fs afero.Fs, library string) string {
	for _, name := range []string{"steamapps", "SteamApps"} {
		p := filepath.Join(library, name)
		if ok, err := afero.DirExists(fs, p); err == nil && ok {
			return p
		}
	}
	return filepath.Join(library, "steamapps")
}
