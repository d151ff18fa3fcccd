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

package mock

import (
	"context"
	"testing"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbes(t *testing.T) {
	t.Parallel()

	probes, err := Probes()
	require.NoError(t, err)
	require.Len(t, probes, 7)

	seen := make(map[platforms.ID]bool)
	for _, p := range probes {
		assert.True(t, p.Supported())
		assert.False(t, seen[p.Platform()], "duplicate platform %s", p.Platform())
		seen[p.Platform()] = true

		got, err := p.Scan(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, got, p.ID())
		for _, c := range got {
			assert.Equal(t, p.Platform(), c.Platform)
			assert.NotEmpty(t, c.InstallPath)
		}
	}
}

func TestSteamFixture(t *testing.T) {
	t.Parallel()

	probes, err := Probes()
	require.NoError(t, err)

	steam := probes[0]
	assert.Equal(t, "mock-steam", steam.ID())
	got, err := steam.Scan(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, platforms.Steam, got[0].Platform)
	assert.Equal(t, "Counter-Strike 2", got[0].Name)
}

func TestScan_ReturnsCopy(t *testing.T) {
	t.Parallel()

	p := NewProbe("x", platforms.Other, []platforms.Candidate{{Platform: platforms.Other, Name: "A"}})
	got, err := p.Scan(context.Background())
	require.NoError(t, err)
	got[0].Name = "changed"

	again, err := p.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Name)
}

func TestScan_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProbe("x", platforms.Other, nil).Scan(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
