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

// Package names turns launcher folder and package names into display titles
// and builds the comparison slugs used to spot duplicate installs.
package names

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/GamePathAI/gamepath-core/pkg/platforms"
)

var (
	// Publisher.Name_1.2.3.0_x64__8wekyb3d8bbwe
	xboxPackageRe = regexp.MustCompile(`^([A-Za-z0-9.\-]+?)_[0-9][0-9.]*_[A-Za-z0-9]*_[A-Za-z0-9~\-]*_[A-Za-z0-9]+$`)
	packageTagRe  = regexp.MustCompile(`(?i)(UWP|Win10|Win32|W10|PC)$`)
	markRe        = regexp.MustCompile(`[™®©]`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// Clean returns a display name for a candidate. Names read from manifests
// are trusted and only lose trademark marks and stray whitespace; names
// derived from folders or packages are also de-camel-cased and have
// underscores replaced. An empty result falls back to the install folder
// name.
func Clean(c platforms.Candidate) string {
	name := strings.TrimSpace(c.Name)
	fromFolder := c.Source == platforms.SourceHeuristic || c.Source == platforms.SourcePackage

	if c.Platform == platforms.Xbox {
		name = StripPackageName(name)
	}
	if fromFolder {
		name = Titleize(name)
	}
	name = tidy(name)

	if name == "" && c.InstallPath != "" {
		base := filepath.Base(strings.ReplaceAll(c.InstallPath, `\`, "/"))
		if base != "." && base != "/" {
			name = tidy(Titleize(StripPackageName(base)))
		}
	}
	return name
}

func tidy(s string) string {
	s = markRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// StripPackageName reduces an MSIX package folder name to its product part:
// "Microsoft.MinecraftUWP_1.20.0.0_x64__8wekyb3d8bbwe" becomes "Minecraft".
// Other names are returned unchanged.
func StripPackageName(s string) string {
	m := xboxPackageRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	product := m[1]
	if i := strings.LastIndex(product, "."); i >= 0 && i < len(product)-1 {
		product = product[i+1:]
	}
	if stripped := packageTagRe.ReplaceAllString(product, ""); stripped != "" {
		product = stripped
	}
	return product
}

// Titleize converts folder-style names to spaced titles: underscores and
// dots become spaces and CamelCase words are split. Names that already
// contain spaces only have their separators replaced.
func Titleize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '_' {
			return ' '
		}
		return r
	}, s)
	if strings.Contains(s, " ") {
		return s
	}
	if !strings.ContainsFunc(s, unicode.IsLower) || !strings.ContainsFunc(s, unicode.IsUpper) {
		return s
	}
	return splitCamel(s)
}

func splitCamel(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if i > 0 {
			prev := rs[i-1]
			var next rune
			if i+1 < len(rs) {
				next = rs[i+1]
			}
			switch {
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				b.WriteRune(' ')
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && unicode.IsLower(next):
				b.WriteRune(' ')
			case unicode.IsDigit(r) && unicode.IsLetter(prev):
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
