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

package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GamePathAI/gamepath-core/internal/telemetry"
	"github.com/GamePathAI/gamepath-core/pkg/api/client"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Mock      *bool
	JSON      *bool
	CSV       *bool
	Serve     *bool
	Timeout   *string
	Platforms *string
	API       *string
	Version   *bool
}

// SetupFlags defines all CLI flags.
func SetupFlags() *Flags {
	return &Flags{
		Mock: flag.Bool(
			"mock",
			false,
			"use the built-in fixture library instead of scanning the host",
		),
		JSON: flag.Bool(
			"json",
			false,
			"print scan results as JSON",
		),
		CSV: flag.Bool(
			"csv",
			false,
			"print scan results as CSV",
		),
		Serve: flag.Bool(
			"serve",
			false,
			"run the API service until interrupted",
		),
		Timeout: flag.String(
			"timeout",
			"",
			"per-probe timeout for a one-shot scan, e.g. 10s",
		),
		Platforms: flag.String(
			"platforms",
			"",
			"comma separated platforms to scan, e.g. steam,epic",
		),
		API: flag.String(
			"api",
			"",
			"send method and params to a running service and print response",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(goos string) {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("GamePath Core v%s (%s)\n", config.AppVersion, goos)
		os.Exit(0)
	}
}

// Post actions all remaining flags that require the environment to be set
// up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance) {
	if *f.Mock {
		cfg.SetScannerMode(config.ScannerModeMock)
	}

	if isFlagPassed("api") {
		if *f.API == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: api flag requires a value\n")
			os.Exit(1)
		}

		resp, err := callAPI(context.Background(), client.NewLocal(cfg), *f.API)
		if err != nil {
			log.Error().Err(err).Msg("error calling API")
			_, _ = fmt.Fprintf(os.Stderr, "Error calling API: %v\n", err)
			os.Exit(1)
		}

		_, _ = fmt.Println(string(resp))
		os.Exit(0)
	}
}

// callAPI sends a "method:params" flag value to the service. Params, when
// present, must be a JSON document.
func callAPI(ctx context.Context, c *client.Client, value string) (json.RawMessage, error) {
	method, params, _ := strings.Cut(value, ":")
	if method == "" {
		return nil, fmt.Errorf("%w: missing method", client.ErrInvalidParams)
	}
	if params == "" {
		return c.Call(ctx, method, nil) //nolint:wrapcheck // client errors are already descriptive
	}
	if !json.Valid([]byte(params)) {
		return nil, fmt.Errorf("%w: params are not valid JSON", client.ErrInvalidParams)
	}
	return c.Call(ctx, method, json.RawMessage(params)) //nolint:wrapcheck // client errors are already descriptive
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	defaultConfig config.Values,
	writers []io.Writer,
) *config.Instance {
	// Ensure directories exist before logging initialization
	err := helpers.EnsureDirectories()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Initialize error reporting (opt-in)
	if err := telemetry.Init(
		cfg.ErrorReporting(),
		config.AppVersion,
		cfg.ScannerMode(),
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg
}
