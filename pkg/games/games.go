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

// Package games holds the canonical game record returned by a scan.
package games

import (
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
)

// GameRecord is a detected, installed game.
type GameRecord struct {
	LastPlayed     *time.Time       `json:"lastPlayed,omitempty"`
	ID             string           `json:"id" validate:"required"`
	Name           string           `json:"name" validate:"required"`
	Platform       platforms.ID     `json:"platform" validate:"required,platform"`
	Source         platforms.Source `json:"source" validate:"source"`
	InstallPath    string           `json:"installPath" validate:"required"`
	ExecutablePath string           `json:"executablePath"`
	ProcessName    string           `json:"processName"`
	IconURL        string           `json:"iconUrl,omitempty" validate:"omitempty,url"`
	SizeMB         int64            `json:"sizeMB" validate:"gte=0"`
}

// Launchable reports whether an executable was found for the record.
func (g *GameRecord) Launchable() bool {
	return g.ExecutablePath != ""
}

// ProbeStat summarises one probe's part in a scan.
type ProbeStat struct {
	Error    string       `json:"error,omitempty"`
	ID       string       `json:"id"`
	Platform platforms.ID `json:"platform"`
	Duration string       `json:"duration"`
	Found    int          `json:"found"`
}

// Result is the outcome of a scan. Data is never nil and Errors holds one
// diagnostic string per failing probe.
type Result struct {
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Session    string       `json:"session"`
	Data       []GameRecord `json:"data"`
	Errors     []string     `json:"errors"`
	Probes     []ProbeStat  `json:"probes,omitempty"`
}
