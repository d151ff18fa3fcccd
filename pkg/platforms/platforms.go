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

// Package platforms defines the storefront identifiers, the raw candidate
// records probes emit and the Probe contract the scan orchestrator runs.
package platforms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/exeresolver"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/keywords"
)

var (
	// ErrPartialRead marks a source that was found but could only be read
	// in part. Probes wrap it and keep the records they did read.
	ErrPartialRead = errors.New("partial read")
	// ErrMalformed marks a manifest or file that failed to parse.
	ErrMalformed = errors.New("malformed data")
)

// ID is a storefront a game record belongs to.
type ID string

const (
	Steam          ID = "Steam"
	Epic           ID = "Epic"
	Xbox           ID = "Xbox"
	GOG            ID = "GOG"
	UbisoftConnect ID = "UbisoftConnect"
	BattleNet      ID = "BattleNet"
	Origin         ID = "Origin"
	Other          ID = "Other"
)

// AllIDs lists every valid platform in display order.
func AllIDs() []ID {
	return []ID{Steam, Epic, Xbox, GOG, UbisoftConnect, BattleNet, Origin, Other}
}

// Valid reports whether id is one of AllIDs.
func (id ID) Valid() bool {
	for _, v := range AllIDs() {
		if v == id {
			return true
		}
	}
	return false
}

// Slug is the lower-case form used as a record id prefix.
func (id ID) Slug() string {
	return strings.ToLower(string(id))
}

// ParseID maps a case-insensitive name to an ID.
func ParseID(s string) (ID, bool) {
	for _, v := range AllIDs() {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

// Source is how a candidate was discovered, from most to least reliable.
type Source string

const (
	SourceManifest  Source = "manifest"
	SourceRegistry  Source = "registry"
	SourcePackage   Source = "package"
	SourceHeuristic Source = "heuristic"
)

// Rank orders sources; lower is more reliable.
func (s Source) Rank() int {
	switch s {
	case SourceManifest:
		return 0
	case SourceRegistry:
		return 1
	case SourcePackage:
		return 2
	case SourceHeuristic:
		return 3
	default:
		return 4
	}
}

// Candidate is a raw record emitted by a probe before normalization.
type Candidate struct {
	LastPlayed     *time.Time
	Platform       ID
	Source         Source
	Key            string
	Name           string
	InstallPath    string
	ExecutablePath string
	IconURL        string
	SizeBytes      int64
}

// Probe discovers installed games for a single storefront.
//
// Scan must not panic and must not return an error for a storefront that is
// absent or unsupported on the host; both yield an empty slice. A non-nil
// error is a diagnostic about sources that were present but unreadable and
// may accompany partial results.
type Probe interface {
	ID() string
	Platform() ID
	Supported() bool
	Scan(ctx context.Context) ([]Candidate, error)
}

// Watcher is implemented by probes whose sources live in folders that can
// be watched for changes.
type Watcher interface {
	WatchPaths() []string
}

// Deps are the shared dependencies every probe is built with.
type Deps struct {
	Env      *hostenv.Env
	Cfg      *config.Instance
	Tables   *keywords.Tables
	Resolver *exeresolver.Resolver
}

// NewDeps wires a resolver over env using the given tables and depth.
func NewDeps(env *hostenv.Env, cfg *config.Instance, tables *keywords.Tables, maxDepth int) *Deps {
	return &Deps{
		Env:      env,
		Cfg:      cfg,
		Tables:   tables,
		Resolver: exeresolver.New(env.Fs, tables, env.GOOS, maxDepth),
	}
}

// Launcher returns the configured overrides for a probe, if any.
func (d *Deps) Launcher(probeID string) config.LaunchersDefault {
	def, _ := d.Cfg.LookupLauncherDefaults(probeID)
	return def
}

// Canceled reports whether ctx is done. Probes check it between sources so
// a timed out probe stops early.
func Canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
