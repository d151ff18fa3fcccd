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

// Package dedup collapses game records that describe the same installation
// and picks the most authoritative record of each group.
package dedup

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/names"
	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSimilarity is the Jaro-Winkler score at which two titles are
	// considered the same game.
	DefaultSimilarity float32 = 0.92
	// minFuzzySlugLen keeps very short titles to exact matches only.
	minFuzzySlugLen = 4
)

// platformRank breaks ties between records of equal source reliability.
// Lower wins.
var platformRank = map[platforms.ID]int{
	platforms.Steam:          0,
	platforms.Epic:           1,
	platforms.GOG:            2,
	platforms.Xbox:           3,
	platforms.BattleNet:      4,
	platforms.UbisoftConnect: 5,
	platforms.Origin:         6,
	platforms.Other:          7,
}

func rankOf(id platforms.ID) int {
	if r, ok := platformRank[id]; ok {
		return r
	}
	return len(platformRank)
}

// Deduplicator merges duplicate records. The zero value is not usable; use
// New.
type Deduplicator struct {
	similarity float32
}

// New returns a Deduplicator. A similarity outside (0, 1] selects
// DefaultSimilarity.
func New(similarity float32) *Deduplicator {
	if similarity <= 0 || similarity > 1 {
		similarity = DefaultSimilarity
	}
	return &Deduplicator{similarity: similarity}
}

type entry struct {
	slug   string
	digits string
	path   string
}

// Dedup returns records with duplicates merged. Two records are duplicates
// when their install paths are equal or nested, or when their titles match
// and at least one of them was found by a folder heuristic. A record whose
// folder holds several separate installs is a container: it is kept on its
// own and never joins those installs into one group. Each group is replaced
// by its best record, placed where the group's first member was. Output
// order is otherwise unchanged and every id is unique. Dedup is idempotent.
func (d *Deduplicator) Dedup(records []games.GameRecord) []games.GameRecord {
	out := d.pass(records)
	for len(out) > 0 && len(out) < len(records) {
		records = out
		out = d.pass(records)
	}
	return out
}

// pass merges one round of duplicate groups. Merging can leave a container
// with a single install below it, so Dedup repeats until nothing changes.
func (d *Deduplicator) pass(records []games.GameRecord) []games.GameRecord {
	n := len(records)
	out := make([]games.GameRecord, 0, n)
	if n == 0 {
		return out
	}

	entries := make([]entry, n)
	for i := range records {
		slug := names.Slug(records[i].Name)
		entries[i] = entry{
			slug:   slug,
			digits: digitsOf(slug),
			path:   helpers.NormalizePathForComparison(records[i].InstallPath),
		}
	}

	overlaps := make([][]int, n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if helpers.PathsOverlap(records[i].InstallPath, records[j].InstallPath) {
				overlaps[i] = append(overlaps[i], j)
				overlaps[j] = append(overlaps[j], i)
			}
		}
	}
	containers := make([]bool, n)
	for i := range n {
		containers[i] = isContainer(records, overlaps[i])
	}

	uf := newUnionFind(n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if d.duplicates(&records[i], &records[j], entries[i], entries[j], containers[i] || containers[j]) {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int, n)
	var roots []int
	for i := range n {
		r := uf.find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}

	for _, r := range roots {
		out = append(out, merge(records, groups[r]))
	}

	return uniqueIDs(out)
}

// isContainer reports whether at least two of the given overlapping records
// do not overlap each other, which means the shared folder holds separate
// installs.
func isContainer(records []games.GameRecord, overlapping []int) bool {
	for a := range overlapping {
		for b := a + 1; b < len(overlapping); b++ {
			ra, rb := &records[overlapping[a]], &records[overlapping[b]]
			if !helpers.PathsOverlap(ra.InstallPath, rb.InstallPath) {
				return true
			}
		}
	}
	return false
}

// duplicates reports whether a and b describe the same game. Path overlap
// with a container only counts when the paths are equal.
func (d *Deduplicator) duplicates(a, b *games.GameRecord, ea, eb entry, container bool) bool {
	if helpers.PathsOverlap(a.InstallPath, b.InstallPath) && (!container || ea.path == eb.path) {
		return true
	}
	if a.Source != platforms.SourceHeuristic && b.Source != platforms.SourceHeuristic {
		return false
	}
	return d.titlesMatch(ea, eb)
}

func (d *Deduplicator) titlesMatch(a, b entry) bool {
	if a.slug == "" || b.slug == "" {
		return false
	}
	if a.slug == b.slug {
		return true
	}
	// sequels differ only by their numbers
	if a.digits != b.digits {
		return false
	}
	if len(a.slug) < minFuzzySlugLen || len(b.slug) < minFuzzySlugLen {
		return false
	}
	return edlib.JaroWinklerSimilarity(a.slug, b.slug) >= d.similarity
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// better reports whether a outranks b, and whether the two are tied.
func better(a, b *games.GameRecord) (wins, tie bool) {
	if ra, rb := a.Source.Rank(), b.Source.Rank(); ra != rb {
		return ra < rb, false
	}
	if ra, rb := rankOf(a.Platform), rankOf(b.Platform); ra != rb {
		return ra < rb, false
	}
	return false, true
}

// merge picks the winner of a group and fills its empty enhancement fields
// from the other members.
func merge(records []games.GameRecord, members []int) games.GameRecord {
	winner := members[0]
	ambiguous := false
	for _, m := range members[1:] {
		wins, tie := better(&records[m], &records[winner])
		switch {
		case wins:
			winner = m
			ambiguous = false
		case tie:
			ambiguous = true
		}
	}

	merged := records[winner]
	if merged.LastPlayed != nil {
		lp := *merged.LastPlayed
		merged.LastPlayed = &lp
	}
	if len(members) == 1 {
		return merged
	}

	if ambiguous {
		log.Warn().
			Str("name", merged.Name).
			Str("platform", string(merged.Platform)).
			Int("duplicates", len(members)).
			Msg("ambiguous duplicate priority, keeping first encountered")
	}

	for _, m := range members {
		if m == winner {
			continue
		}
		loser := &records[m]
		if merged.ExecutablePath == "" && loser.ExecutablePath != "" &&
			helpers.PathHasPrefix(loser.ExecutablePath, merged.InstallPath) {
			merged.ExecutablePath = loser.ExecutablePath
			merged.ProcessName = loser.ProcessName
		}
		if merged.SizeMB == 0 {
			merged.SizeMB = loser.SizeMB
		}
		if merged.IconURL == "" {
			merged.IconURL = loser.IconURL
		}
		if loser.LastPlayed != nil && (merged.LastPlayed == nil || loser.LastPlayed.After(*merged.LastPlayed)) {
			lp := *loser.LastPlayed
			merged.LastPlayed = &lp
		}
	}

	log.Debug().
		Str("id", merged.ID).
		Str("name", merged.Name).
		Int("merged", len(members)-1).
		Msg("merged duplicate game records")

	return merged
}

// uniqueIDs suffixes repeated ids with -2, -3 and so on.
func uniqueIDs(records []games.GameRecord) []games.GameRecord {
	used := make(map[string]struct{}, len(records))
	for i := range records {
		used[records[i].ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		id := records[i].ID
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			continue
		}
		for n := 2; ; n++ {
			candidate := id + "-" + strconv.Itoa(n)
			if _, taken := used[candidate]; !taken {
				records[i].ID = candidate
				used[candidate] = struct{}{}
				seen[candidate] = struct{}{}
				break
			}
		}
	}
	return records
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union keeps the smaller index as root so group roots follow input order.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
