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

package config

// Keywords extends the built-in classification tables.
type Keywords struct {
	DenyExecutables []string `toml:"deny_executables,omitempty"`
	DenyTokens      []string `toml:"deny_tokens,omitempty"`
	DenyDirs        []string `toml:"deny_dirs,omitempty"`
	XboxAllow       []string `toml:"xbox_allow,omitempty"`
	XboxDeny        []string `toml:"xbox_deny,omitempty"`
	SteamExclude    []string `toml:"steam_exclude,omitempty"`
	BattleNetTitles []string `toml:"battlenet_titles,omitempty"`
}

func (c *Instance) Keywords() Keywords {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Keywords
}
