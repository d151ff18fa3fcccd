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

// Package keywords holds the allow and deny tables that classify folders,
// packages and executables during a scan. The defaults are embedded data and
// can be extended at runtime.
package keywords

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultTables []byte

type Executables struct {
	Extensions   map[string][]string `yaml:"extensions"`
	DenyTokens   []string            `yaml:"deny_tokens"`
	DenyBinaries []string            `yaml:"deny_binaries"`
}

type Directories struct {
	Deny []string `yaml:"deny"`
}

type Xbox struct {
	Allow        []string `yaml:"allow"`
	DenyPrefixes []string `yaml:"deny_prefixes"`
	DenyContains []string `yaml:"deny_contains"`
}

type Steam struct {
	ExcludedAppIDs       []string `yaml:"excluded_app_ids"`
	ExcludedNamePrefixes []string `yaml:"excluded_name_prefixes"`
}

type BattleNet struct {
	Publishers []string `yaml:"publishers"`
	Titles     []string `yaml:"titles"`
}

// Tables is the full set of classification data. All entries are stored
// lower-cased.
type Tables struct {
	Executables Executables `yaml:"executables"`
	Directories Directories `yaml:"directories"`
	Xbox        Xbox        `yaml:"xbox"`
	Steam       Steam       `yaml:"steam"`
	BattleNet   BattleNet   `yaml:"battlenet"`
}

// Verdict is the classification of an Xbox package folder.
type Verdict int

const (
	Unknown Verdict = iota
	Allowed
	Denied
)

// Parse decodes a YAML table document.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse keyword tables: %w", err)
	}
	t.normalize()
	return &t, nil
}

// Default returns a fresh copy of the embedded tables.
func Default() *Tables {
	t, err := Parse(defaultTables)
	if err != nil {
		panic(err)
	}
	return t
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func (t *Tables) normalize() {
	for k, v := range t.Executables.Extensions {
		t.Executables.Extensions[k] = lowerAll(v)
	}
	t.Executables.DenyTokens = lowerAll(t.Executables.DenyTokens)
	t.Executables.DenyBinaries = lowerAll(t.Executables.DenyBinaries)
	t.Directories.Deny = lowerAll(t.Directories.Deny)
	t.Xbox.Allow = lowerAll(t.Xbox.Allow)
	t.Xbox.DenyPrefixes = lowerAll(t.Xbox.DenyPrefixes)
	t.Xbox.DenyContains = lowerAll(t.Xbox.DenyContains)
	t.Steam.ExcludedAppIDs = lowerAll(t.Steam.ExcludedAppIDs)
	t.Steam.ExcludedNamePrefixes = lowerAll(t.Steam.ExcludedNamePrefixes)
	t.BattleNet.Publishers = lowerAll(t.BattleNet.Publishers)
	t.BattleNet.Titles = lowerAll(t.BattleNet.Titles)
}

// Extend appends extra entries to the tables and returns t.
func (t *Tables) Extend(extra *Tables) *Tables {
	if extra == nil {
		return t
	}
	if t.Executables.Extensions == nil {
		t.Executables.Extensions = make(map[string][]string)
	}
	for k, v := range extra.Executables.Extensions {
		t.Executables.Extensions[k] = append(t.Executables.Extensions[k], v...)
	}
	t.Executables.DenyTokens = append(t.Executables.DenyTokens, extra.Executables.DenyTokens...)
	t.Executables.DenyBinaries = append(t.Executables.DenyBinaries, extra.Executables.DenyBinaries...)
	t.Directories.Deny = append(t.Directories.Deny, extra.Directories.Deny...)
	t.Xbox.Allow = append(t.Xbox.Allow, extra.Xbox.Allow...)
	t.Xbox.DenyPrefixes = append(t.Xbox.DenyPrefixes, extra.Xbox.DenyPrefixes...)
	t.Xbox.DenyContains = append(t.Xbox.DenyContains, extra.Xbox.DenyContains...)
	t.Steam.ExcludedAppIDs = append(t.Steam.ExcludedAppIDs, extra.Steam.ExcludedAppIDs...)
	t.Steam.ExcludedNamePrefixes = append(t.Steam.ExcludedNamePrefixes, extra.Steam.ExcludedNamePrefixes...)
	t.BattleNet.Publishers = append(t.BattleNet.Publishers, extra.BattleNet.Publishers...)
	t.BattleNet.Titles = append(t.BattleNet.Titles, extra.BattleNet.Titles...)
	t.normalize()
	return t
}

// FromConfig returns the default tables extended with the [keywords]
// section of the user config.
func FromConfig(cfg *config.Instance) *Tables {
	t := Default()
	if cfg == nil {
		return t
	}
	k := cfg.Keywords()
	return t.Extend(&Tables{
		Executables: Executables{
			DenyTokens:   k.DenyTokens,
			DenyBinaries: k.DenyExecutables,
		},
		Directories: Directories{Deny: k.DenyDirs},
		Xbox: Xbox{
			Allow:        k.XboxAllow,
			DenyPrefixes: k.XboxDeny,
		},
		Steam:     Steam{ExcludedAppIDs: k.SteamExclude},
		BattleNet: BattleNet{Titles: k.BattleNetTitles},
	})
}

// ExecutableExtensions returns the file extensions treated as launchable on
// the given GOOS, including the leading dot.
func (t *Tables) ExecutableExtensions(goos string) []string {
	if exts, ok := t.Executables.Extensions[goos]; ok {
		return exts
	}
	return t.Executables.Extensions["linux"]
}

// IsDeniedExecutable reports whether a file name belongs to an installer,
// updater, crash handler or other non-game program.
func (t *Tables) IsDeniedExecutable(name string) bool {
	lower := strings.ToLower(name)
	stem := strings.TrimSuffix(lower, filepath.Ext(lower))
	if slices.Contains(t.Executables.DenyBinaries, stem) || slices.Contains(t.Executables.DenyBinaries, lower) {
		return true
	}
	for _, token := range t.Executables.DenyTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// IsDeniedDir reports whether a folder name is known not to hold a game.
func (t *Tables) IsDeniedDir(name string) bool {
	return slices.Contains(t.Directories.Deny, strings.ToLower(name))
}

// XboxVerdict classifies a package folder name. Deny rules take precedence.
func (t *Tables) XboxVerdict(pkg string) Verdict {
	lower := strings.ToLower(pkg)
	for _, p := range t.Xbox.DenyPrefixes {
		if strings.HasPrefix(lower, p) {
			return Denied
		}
	}
	for _, c := range t.Xbox.DenyContains {
		if strings.Contains(lower, c) {
			return Denied
		}
	}
	for _, a := range t.Xbox.Allow {
		if strings.Contains(lower, a) {
			return Allowed
		}
	}
	return Unknown
}

// SteamExcluded reports whether a Steam app is a runtime or tool rather
// than a game.
func (t *Tables) SteamExcluded(appID, name string) bool {
	if slices.Contains(t.Steam.ExcludedAppIDs, appID) {
		return true
	}
	lower := strings.ToLower(name)
	for _, p := range t.Steam.ExcludedNamePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func (t *Tables) IsBattleNetPublisher(publisher string) bool {
	return slices.Contains(t.BattleNet.Publishers, strings.ToLower(strings.TrimSpace(publisher)))
}

// IsBattleNetTitle reports whether a folder name is a known Blizzard title.
// Punctuation is ignored so "Diablo II Resurrected" matches
// "Diablo II: Resurrected".
func (t *Tables) IsBattleNetTitle(dir string) bool {
	key := squash(dir)
	for _, title := range t.BattleNet.Titles {
		if squash(title) == key {
			return true
		}
	}
	return false
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
