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

package names

import (
	"testing"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
		in       platforms.Candidate
	}{
		{
			name:     "manifest name kept",
			in:       platforms.Candidate{Platform: platforms.Steam, Source: platforms.SourceManifest, Name: "Counter-Strike 2"},
			expected: "Counter-Strike 2",
		},
		{
			name:     "manifest name is not de-camel-cased",
			in:       platforms.Candidate{Platform: platforms.Steam, Source: platforms.SourceManifest, Name: "PlateUp!"},
			expected: "PlateUp!",
		},
		{
			name:     "trademark stripped",
			in:       platforms.Candidate{Platform: platforms.Epic, Source: platforms.SourceManifest, Name: "Fortnite®  "},
			expected: "Fortnite",
		},
		{
			name:     "folder camel case split",
			in:       platforms.Candidate{Platform: platforms.GOG, Source: platforms.SourceHeuristic, Name: "DivinityOriginalSin2"},
			expected: "Divinity Original Sin 2",
		},
		{
			name:     "folder underscores replaced",
			in:       platforms.Candidate{Platform: platforms.UbisoftConnect, Source: platforms.SourceHeuristic, Name: "assassins_creed_valhalla"},
			expected: "assassins creed valhalla",
		},
		{
			name: "xbox package name stripped",
			in: platforms.Candidate{
				Platform: platforms.Xbox,
				Source:   platforms.SourcePackage,
				Name:     "Microsoft.MinecraftUWP_1.20.5101.0_x64__8wekyb3d8bbwe",
			},
			expected: "Minecraft",
		},
		{
			name: "xbox acronym split",
			in: platforms.Candidate{
				Platform: platforms.Xbox,
				Source:   platforms.SourcePackage,
				Name:     "BethesdaSoftworks.TESOblivionRemastered_1.0.0.0_x64__3275kfvn8vcwc",
			},
			expected: "TES Oblivion Remastered",
		},
		{
			name:     "empty name falls back to folder",
			in:       platforms.Candidate{Platform: platforms.GOG, Source: platforms.SourceRegistry, InstallPath: `C:\GOG Games\HollowKnight`},
			expected: "Hollow Knight",
		},
		{
			name:     "empty everything stays empty",
			in:       platforms.Candidate{Platform: platforms.GOG},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := tt.in
			assert.Equal(t, tt.expected, Clean(tt.in))
			assert.Equal(t, before, tt.in)
		})
	}
}

func TestStripPackageName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Halo Infinite", StripPackageName("Halo Infinite"))
	assert.Equal(t, "SeaofThieves", StripPackageName("Microsoft.SeaofThieves_2.0.0.0_x64__8wekyb3d8bbwe"))
	assert.Equal(t, "Forza", StripPackageName("Microsoft.Forza_1.0_neutral_~_8wekyb3d8bbwe"))
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
	}{
		{"The Witcher® 3: Wild Hunt", "witcher_3_wild_hunt"},
		{"Final Fantasy VII", "FINAL FANTASY 7"},
		{"Pokémon Legends", "Pokemon Legends"},
		{"Sid Meier's Civilization VI (2016)", "Sid Meiers Civilization 6"},
		{"Hades", "hades"},
		{"Celeste Edition", "Celeste"},
		{"Legend, The", "legend"},
	}

	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, Slug(tt.a), Slug(tt.b))
			assert.NotEmpty(t, Slug(tt.a))
		})
	}

	assert.NotEqual(t, Slug("Halo Infinite"), Slug("Halo Wars"))
}
