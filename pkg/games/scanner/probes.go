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

package scanner

import (
	"fmt"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/battlenet"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/epic"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/gog"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/mock"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/origin"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/keywords"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/steam"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/ubisoft"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/xbox"
)

// NativeProbes returns the storefront probes in registration order. Scan
// results keep this order before deduplication.
func NativeProbes(deps *platforms.Deps) []platforms.Probe {
	return []platforms.Probe{
		steam.New(deps),
		epic.New(deps),
		xbox.New(deps),
		gog.New(deps),
		ubisoft.New(deps),
		battlenet.New(deps),
		origin.New(deps),
		steam.NewShortcuts(deps),
	}
}

// NewForMode builds a scanner with either the native or the mock probe set
// according to the configured scanner mode. The choice is made once here.
func NewForMode(cfg *config.Instance, env *hostenv.Env, opts ...Option) (*Scanner, error) {
	switch mode := cfg.ScannerMode(); mode {
	case config.ScannerModeNative:
		deps := platforms.NewDeps(env, cfg, keywords.FromConfig(cfg), cfg.MaxDepth())
		return New(cfg, NativeProbes(deps), opts...), nil
	case config.ScannerModeMock:
		probes, err := mock.Probes()
		if err != nil {
			return nil, err //nolint:wrapcheck // already wrapped
		}
		return New(cfg, probes, opts...), nil
	default:
		return nil, fmt.Errorf("unknown scanner mode: %q", mode)
	}
}
