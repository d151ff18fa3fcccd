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

// Package methods implements the JSON-RPC methods of the API.
package methods

import (
	"fmt"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/api/models/requests"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/scanner"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/validation"
	"github.com/rs/zerolog/log"
)

// ScanOptions converts validated params into scanner options.
func ScanOptions(params *models.ScanParams) (scanner.Options, error) {
	var opts scanner.Options
	if err := validation.DefaultValidator.Validate(params); err != nil {
		return opts, err //nolint:wrapcheck // validation errors are returned to the client as is
	}
	for _, p := range params.Platforms {
		id, ok := platforms.ParseID(p)
		if !ok {
			return opts, fmt.Errorf("%w: unknown platform %q", validation.ErrInvalidParams, p)
		}
		opts.Platforms = append(opts.Platforms, id)
	}
	if params.Timeout != nil && *params.Timeout != "" {
		d, err := time.ParseDuration(*params.Timeout)
		if err != nil {
			return opts, fmt.Errorf("%w: %w", validation.ErrInvalidParams, err)
		}
		opts.Timeout = d
	}
	return opts, nil
}

func HandleGamesScan(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	var params models.ScanParams
	if len(env.Params) > 0 {
		if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
			return nil, err //nolint:wrapcheck // validation errors are returned to the client as is
		}
	}
	opts, err := ScanOptions(&params)
	if err != nil {
		return nil, err
	}

	log.Info().Interface("platforms", opts.Platforms).Msg("received scan request")
	return env.Scanner.Scan(env.Context, opts), nil
}

// HandleGamesRunning matches live processes against the latest scan,
// running one first when none has finished yet.
func HandleGamesRunning(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	res, ok := env.Scanner.LastResult()
	if !ok {
		res = env.Scanner.ScanForGames(env.Context)
	}

	found, err := env.Detector.Running(env.Context, res.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to list running games: %w", err)
	}
	return models.RunningResponse{Games: found}, nil
}

func HandleGamesState(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	resp := models.StateResponse{State: env.Scanner.State().String()}
	if res, ok := env.Scanner.LastResult(); ok {
		resp.LastScan = lastScanTime(&res)
		resp.Session = res.Session
		resp.Games = len(res.Data)
		resp.Errors = len(res.Errors)
	}
	return resp, nil
}

func lastScanTime(res *games.Result) *time.Time {
	if res.FinishedAt.IsZero() {
		return nil
	}
	t := res.FinishedAt
	return &t
}
