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

// Package mock provides probes that return fixed records. They stand in for
// the storefront probes when the host cannot be inspected, such as a
// browser-only UI session.
package mock

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixtureData []byte

type fixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	InstallPath string `yaml:"install_path"`
	Executable  string `yaml:"executable"`
	IconURL     string `yaml:"icon_url"`
	SizeBytes   int64  `yaml:"size_bytes"`
}

var fixtureKeys = map[string]platforms.ID{
	"steam":     platforms.Steam,
	"epic":      platforms.Epic,
	"xbox":      platforms.Xbox,
	"gog":       platforms.GOG,
	"ubisoft":   platforms.UbisoftConnect,
	"battlenet": platforms.BattleNet,
	"origin":    platforms.Origin,
}

// Probe returns the same candidates on every scan.
type Probe struct {
	id         string
	platform   platforms.ID
	candidates []platforms.Candidate
}

var _ platforms.Probe = (*Probe)(nil)

// NewProbe builds a mock probe over the given candidates.
func NewProbe(id string, platform platforms.ID, candidates []platforms.Candidate) *Probe {
	return &Probe{id: id, platform: platform, candidates: candidates}
}

func (p *Probe) ID() string {
	return p.id
}

func (p *Probe) Platform() platforms.ID {
	return p.platform
}

func (*Probe) Supported() bool {
	return true
}

// Scan returns a copy of the fixed candidates.
func (p *Probe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mock scan canceled: %w", err)
	}
	out := make([]platforms.Candidate, len(p.candidates))
	copy(out, p.candidates)
	return out, nil
}

// Probes returns one mock probe per storefront, in the same order as the
// native probe set.
func Probes() ([]platforms.Probe, error) {
	var raw map[string][]fixture
	if err := yaml.Unmarshal(fixtureData, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mock fixtures: %w", err)
	}

	probes := make([]platforms.Probe, 0, len(fixtureKeys))
	for _, key := range []string{"steam", "epic", "xbox", "gog", "ubisoft", "battlenet", "origin"} {
		platform := fixtureKeys[key]
		entries := raw[key]
		candidates := make([]platforms.Candidate, 0, len(entries))
		for _, e := range entries {
			candidates = append(candidates, platforms.Candidate{
				Platform:       platform,
				Source:         platforms.SourceManifest,
				Key:            e.Key,
				Name:           e.Name,
				InstallPath:    e.InstallPath,
				ExecutablePath: e.Executable,
				IconURL:        e.IconURL,
				SizeBytes:      e.SizeBytes,
			})
		}
		probes = append(probes, NewProbe("mock-"+key, platform, candidates))
	}
	return probes, nil
}
