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

package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	editionSuffixRe  = regexp.MustCompile(`(?i)\s+(version|edition)$`)
	versionSuffixRe  = regexp.MustCompile(`\s+v[.]?\d{1,3}(?:[.]\d{1,4})*$`)
	trailingArticle  = regexp.MustCompile(`(?i),\s*the\s*($|[\s:\-(\[])`)
	romanNumeralRe   = regexp.MustCompile(`\b(XIX|XVIII|XVII|XVI|XV|XIV|XIII|XII|XI|IX|VIII|VII|VI|V|IV|III|II)\b`)
	nonAlphanumRe    = regexp.MustCompile(`[^a-z0-9]+`)
	romanReplacement = map[string]string{
		"XIX": "19", "XVIII": "18", "XVII": "17", "XVI": "16", "XV": "15",
		"XIV": "14", "XIII": "13", "XII": "12", "XI": "11", "IX": "9",
		"VIII": "8", "VII": "7", "VI": "6", "V": "5", "IV": "4",
		"III": "3", "II": "2",
	}
)

// Slug reduces a title to a comparison key. "The Witcher® 3: Wild Hunt"
// and "witcher_3_wild_hunt" share the slug "witcher3wildhunt".
func Slug(title string) string {
	s := foldUnicode(title)
	s = stripBrackets(s)
	s = trailingArticle.ReplaceAllString(s, "$1")
	s = stripLeadingArticle(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '_', '-', '.':
			return ' '
		default:
			return r
		}
	}, s)
	s = strings.TrimSpace(s)
	s = editionSuffixRe.ReplaceAllString(s, "")
	s = versionSuffixRe.ReplaceAllString(s, "")
	s = romanNumeralRe.ReplaceAllStringFunc(strings.ToUpper(s), func(m string) string {
		return romanReplacement[m]
	})
	return nonAlphanumRe.ReplaceAllString(strings.ToLower(s), "")
}

// foldUnicode applies width folding, drops symbols such as ™ and removes
// diacritics.
func foldUnicode(s string) string {
	if folded, _, err := transform.String(width.Fold, s); err == nil {
		s = folded
	}
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.Predicate(func(r rune) bool {
			return unicode.Is(unicode.Mn, r) || unicode.Is(unicode.So, r) || unicode.Is(unicode.Sc, r)
		})),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}

func stripLeadingArticle(s string) string {
	lower := strings.ToLower(s)
	for _, a := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, a) {
			return strings.TrimSpace(s[len(a):])
		}
	}
	return s
}

// stripBrackets removes bracketed metadata such as "(2019)" or "[GOG]".
func stripBrackets(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
