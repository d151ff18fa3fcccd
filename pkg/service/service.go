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

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GamePathAI/gamepath-core/pkg/api"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games/running"
	"github.com/GamePathAI/gamepath-core/pkg/games/scanner"
	"github.com/GamePathAI/gamepath-core/pkg/games/watcher"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Start brings up the scanner, the API server and, when enabled, the
// manifest watcher. An initial scan runs in the background so the first
// games.state request has data. stop cancels everything and waits for the
// goroutines to exit; done is closed once they have.
func Start(
	cfg *config.Instance,
	env *hostenv.Env,
) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	bootID := uuid.New().String()
	log.Info().Msgf("service session: %s", bootID)

	s, err := scanner.NewForMode(cfg, env)
	if err != nil {
		log.Error().Err(err).Msg("error creating scanner")
		return nil, nil, fmt.Errorf("failed to create scanner: %w", err)
	}
	log.Info().
		Str("mode", cfg.ScannerMode()).
		Int("probes", len(s.Probes())).
		Msg("scanner ready")

	srv := api.NewServer(cfg, s, running.NewDetector(nil))

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	log.Info().Msg("starting API service")
	g.Go(func() error {
		return srv.Serve(gctx)
	})

	g.Go(func() error {
		res := s.ScanForGames(gctx)
		log.Info().
			Int("games", len(res.Data)).
			Int("errors", len(res.Errors)).
			Msg("initial scan finished")
		return nil
	})

	if cfg.WatchManifests() {
		w, werr := watcher.New(watcher.PathsOf(s.Probes()), func(ctx context.Context) {
			s.ScanForGames(ctx)
		})
		if werr != nil {
			log.Error().Err(werr).Msg("manifest watcher failed to start (continuing without it)")
		} else {
			log.Info().Int("folders", len(w.Paths())).Msg("starting manifest watcher")
			g.Go(func() error {
				return w.Run(gctx)
			})
		}
	}

	var runErr error
	doneCh := make(chan struct{})
	go func() {
		runErr = g.Wait()
		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		cancel()
		<-doneCh
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		return nil
	}
	return stop, doneCh, nil
}
