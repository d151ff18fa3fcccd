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

package notifications

import (
	"testing"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamesScanned_NonBlocking(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification)
	done := make(chan struct{})
	go func() {
		GamesScanned(ns, &games.Result{Session: "s"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("notification send blocked on a full queue")
	}
}

func TestGamesScanned_Payload(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 1)
	GamesScanned(ns, &games.Result{
		Session: "abc",
		Data:    []games.GameRecord{{ID: "steam-730"}, {ID: "epic-x"}},
		Errors:  []string{"xbox: probe timed out after 20s"},
	})

	require.Len(t, ns, 1)
	n := <-ns
	assert.Equal(t, models.NotificationGamesScanned, n.Method)
	assert.Equal(t, ScanSummary{
		Session: "abc",
		Games:   2,
		Errors:  []string{"xbox: probe timed out after 20s"},
	}, n.Params)
}
