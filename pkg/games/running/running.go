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

// Package running reports which detected games currently have a live
// process on the host.
package running

import (
	"context"
	"fmt"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// Process is the part of a host process used for matching.
type Process struct {
	Name string
	Exe  string
	PID  int32
}

// Lister returns the processes currently running.
type Lister func(ctx context.Context) ([]Process, error)

// Game is a record with a matching live process.
type Game struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Platform platforms.ID `json:"platform"`
	Exe      string       `json:"exe"`
	PID      int32        `json:"pid"`
}

// SystemProcesses lists host processes. Processes whose name and
// executable cannot both be read are skipped.
func SystemProcesses(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, nameErr := p.NameWithContext(ctx)
		exe, exeErr := p.ExeWithContext(ctx)
		if nameErr != nil && exeErr != nil {
			continue
		}
		out = append(out, Process{PID: p.Pid, Name: name, Exe: exe})
	}
	return out, nil
}

type Detector struct {
	list Lister
}

// NewDetector returns a detector over list, or over the host processes
// when list is nil.
func NewDetector(list Lister) *Detector {
	if list == nil {
		list = SystemProcesses
	}
	return &Detector{list: list}
}

// Running returns the records with a live process, in record order. A
// process matches a record by executable name, ignoring case, or by having
// its executable inside the record's install folder.
func (d *Detector) Running(ctx context.Context, records []games.GameRecord) ([]Game, error) {
	procs, err := d.list(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Game, 0)
	for i := range records {
		rec := &records[i]
		if p, ok := match(rec, procs); ok {
			log.Debug().Str("game", rec.ID).Int32("pid", p.PID).Msg("game is running")
			out = append(out, Game{
				ID:       rec.ID,
				Name:     rec.Name,
				Platform: rec.Platform,
				PID:      p.PID,
				Exe:      p.Exe,
			})
		}
	}
	return out, nil
}

func match(rec *games.GameRecord, procs []Process) (Process, bool) {
	for _, p := range procs {
		if rec.ProcessName != "" && strings.EqualFold(rec.ProcessName, p.Name) {
			return p, true
		}
	}
	for _, p := range procs {
		if p.Exe != "" && helpers.PathHasPrefix(p.Exe, rec.InstallPath) {
			return p, true
		}
	}
	return Process{}, false
}
