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

// Package notifications queues server-sent JSON-RPC notifications.
package notifications

import (
	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/rs/zerolog/log"
)

// ScanSummary is the payload of games.scanned. Clients fetch the records
// themselves so large libraries are not broadcast to every socket.
type ScanSummary struct {
	Session string   `json:"session"`
	Errors  []string `json:"errors"`
	Games   int      `json:"games"`
}

// send never blocks: a full queue drops the notification.
func send(ns chan<- models.Notification, n models.Notification) {
	select {
	case ns <- n:
	default:
		log.Warn().Str("method", n.Method).Msg("notification queue full, dropping notification")
	}
}

func GamesScanned(ns chan<- models.Notification, res *games.Result) {
	send(ns, models.Notification{
		Method: models.NotificationGamesScanned,
		Params: ScanSummary{
			Session: res.Session,
			Games:   len(res.Data),
			Errors:  res.Errors,
		},
	})
}
