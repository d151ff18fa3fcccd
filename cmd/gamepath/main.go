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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/GamePathAI/gamepath-core/internal/telemetry"
	"github.com/GamePathAI/gamepath-core/pkg/cli"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := cli.SetupFlags()
	flags.Pre(runtime.GOOS)

	cfg := cli.Setup(
		config.BaseDefaults,
		[]io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}},
	)
	defer telemetry.Close()

	flags.Post(cfg)

	env := hostenv.Native()

	if *flags.Serve {
		return serve(cfg, env)
	}

	opts, err := flags.ScanOptions()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if _, err := cli.RunScan(ctx, cfg, env, opts, os.Stdout, flags.OutputFormat()); err != nil {
		log.Error().Err(err).Msg("scan failed")
		_, _ = fmt.Fprintf(os.Stderr, "Error scanning: %v\n", err)
		return 1
	}
	return 0
}

func serve(cfg *config.Instance, env *hostenv.Env) int {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	stopSvc, done, err := service.Start(cfg, env)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		_, _ = fmt.Println("Error starting service:", err)
		return 1
	}

	_, _ = fmt.Printf("API listening on %s\n", cfg.APIListen())

	// just wait for either of these
	select {
	case <-sigs:
	case <-done:
	}

	if err := stopSvc(); err != nil {
		log.Error().Msgf("error stopping service: %s", err)
		return 1
	}
	return 0
}
