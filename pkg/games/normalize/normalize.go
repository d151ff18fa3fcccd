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

// Package normalize converts raw probe candidates into canonical game
// records.
package normalize

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/names"
	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/validation"
	"github.com/rs/zerolog/log"
)

const bytesPerMB = 1024 * 1024

var (
	ErrMissingPlatform = errors.New("candidate has no valid platform")
	keyCharsRe         = regexp.MustCompile(`[^a-z0-9._]+`)
)

// RecordID builds the record id for a platform and key. Candidates without
// a key use the unpadded URL-safe base64 of their install path, which is
// only stable while the path is.
func RecordID(platform platforms.ID, key, installPath string) string {
	k := strings.Trim(keyCharsRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "-"), "-")
	if k == "" {
		k = base64.RawURLEncoding.EncodeToString([]byte(helpers.NormalizePathForComparison(installPath)))
	}
	return platform.Slug() + "-" + k
}

// ProcessName returns the executable's base name, accepting either path
// separator.
func ProcessName(exe string) string {
	if strings.TrimSpace(exe) == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(exe, `\`, "/"))
}

// SizeMB converts a byte count to whole megabytes. Unknown sizes stay 0 and
// known non-zero sizes never round down to 0.
func SizeMB(b int64) int64 {
	if b <= 0 {
		return 0
	}
	return max((b+bytesPerMB/2)/bytesPerMB, 1)
}

// Normalize maps a candidate to a GameRecord. It never mutates c. A
// candidate that cannot form a valid record returns an error and should be
// dropped.
//
//nolint:gocritic // candidate passed by value so callers keep their copy
func Normalize(c platforms.Candidate) (games.GameRecord, error) {
	if !c.Platform.Valid() {
		return games.GameRecord{}, fmt.Errorf("%w: %q", ErrMissingPlatform, c.Platform)
	}

	rec := games.GameRecord{
		ID:             RecordID(c.Platform, c.Key, c.InstallPath),
		Name:           names.Clean(c),
		Platform:       c.Platform,
		Source:         c.Source,
		InstallPath:    strings.TrimSpace(c.InstallPath),
		ExecutablePath: strings.TrimSpace(c.ExecutablePath),
		ProcessName:    ProcessName(c.ExecutablePath),
		SizeMB:         SizeMB(c.SizeBytes),
		IconURL:        strings.TrimSpace(c.IconURL),
	}
	if c.LastPlayed != nil && !c.LastPlayed.IsZero() {
		lp := *c.LastPlayed
		rec.LastPlayed = &lp
	}

	if err := validation.DefaultValidator.Validate(&rec); err != nil {
		return games.GameRecord{}, fmt.Errorf("invalid %s candidate %q: %w", c.Platform, c.Name, err)
	}
	return rec, nil
}

// All normalizes candidates in order, dropping and logging the ones that
// fail validation.
func All(candidates []platforms.Candidate) []games.GameRecord {
	out := make([]games.GameRecord, 0, len(candidates))
	for i := range candidates {
		rec, err := Normalize(candidates[i])
		if err != nil {
			log.Warn().Err(err).
				Str("platform", string(candidates[i].Platform)).
				Str("path", candidates[i].InstallPath).
				Msg("dropping game candidate")
			continue
		}
		out = append(out, rec)
	}
	return out
}
