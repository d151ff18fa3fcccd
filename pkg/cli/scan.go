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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/api/methods"
	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/scanner"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ScanOptions converts the -platforms and -timeout flags, validated the
// same way as games.scan params.
func (f *Flags) ScanOptions() (scanner.Options, error) {
	var params models.ScanParams
	if f.Timeout != nil && *f.Timeout != "" {
		params.Timeout = f.Timeout
	}
	if f.Platforms != nil && *f.Platforms != "" {
		for _, p := range strings.Split(*f.Platforms, ",") {
			if p = strings.TrimSpace(p); p != "" {
				params.Platforms = append(params.Platforms, strings.ToLower(p))
			}
		}
	}
	opts, err := methods.ScanOptions(&params)
	if err != nil {
		return opts, fmt.Errorf("invalid scan flags: %w", err)
	}
	return opts, nil
}

// Format selects how RunScan prints a result.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// OutputFormat picks the result format from the -json and -csv flags.
// -json wins when both are set.
func (f *Flags) OutputFormat() Format {
	switch {
	case f.JSON != nil && *f.JSON:
		return FormatJSON
	case f.CSV != nil && *f.CSV:
		return FormatCSV
	default:
		return FormatTable
	}
}

// RunScan performs a single scan and writes the result to out in the given
// format.
func RunScan(
	ctx context.Context,
	cfg *config.Instance,
	env *hostenv.Env,
	opts scanner.Options,
	out io.Writer,
	format Format,
) (games.Result, error) {
	s, err := scanner.NewForMode(cfg, env)
	if err != nil {
		return games.Result{}, fmt.Errorf("failed to create scanner: %w", err)
	}

	res := s.Scan(ctx, opts)
	log.Info().
		Int("games", len(res.Data)).
		Int("errors", len(res.Errors)).
		Msg("scan finished")

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return res, fmt.Errorf("failed to encode result: %w", err)
		}
		return res, nil
	case FormatCSV:
		return res, writeCSV(out, &res)
	default:
		return res, writeTable(out, &res)
	}
}

type csvRow struct {
	ID             string `csv:"id"`
	Name           string `csv:"name"`
	Platform       string `csv:"platform"`
	Source         string `csv:"source"`
	InstallPath    string `csv:"install_path"`
	ExecutablePath string `csv:"executable_path"`
	ProcessName    string `csv:"process_name"`
	LastPlayed     string `csv:"last_played"`
	SizeMB         int64  `csv:"size_mb"`
}

// writeCSV prints one row per record. Probe errors are left to the log.
func writeCSV(out io.Writer, res *games.Result) error {
	rows := make([]*csvRow, 0, len(res.Data))
	for i := range res.Data {
		g := &res.Data[i]
		row := &csvRow{
			ID:             g.ID,
			Name:           g.Name,
			Platform:       string(g.Platform),
			Source:         string(g.Source),
			InstallPath:    g.InstallPath,
			ExecutablePath: g.ExecutablePath,
			ProcessName:    g.ProcessName,
			SizeMB:         g.SizeMB,
		}
		if g.LastPlayed != nil {
			row.LastPlayed = g.LastPlayed.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	for _, e := range res.Errors {
		log.Warn().Str("error", e).Msg("probe error omitted from csv output")
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeTable(out io.Writer, res *games.Result) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tPLATFORM\tSOURCE\tEXECUTABLE")
	for i := range res.Data {
		g := &res.Data[i]
		exe := g.ExecutablePath
		if exe == "" {
			exe = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Name, g.Platform, g.Source, exe)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	for _, e := range res.Errors {
		_, _ = fmt.Fprintf(out, "error: %s\n", e)
	}
	_, _ = fmt.Fprintf(
		out,
		"%d games found in %s\n",
		len(res.Data),
		res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond),
	)
	return nil
}
