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

// Package exeresolver picks the most likely game executable inside an
// install folder.
package exeresolver

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/keywords"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultMaxDepth is the number of sub-folder levels searched below the
// install folder.
const DefaultMaxDepth = 3

// maxCandidates bounds the number of acceptable executables collected from a
// single install folder.
const maxCandidates = 64

// Resolver searches install folders for executables. The search is
// sequential and depth-first: files of a folder are considered before its
// sub-folders and entries are visited in lexical order.
type Resolver struct {
	fs       afero.Fs
	tables   *keywords.Tables
	goos     string
	maxDepth int
}

// New returns a Resolver. A negative maxDepth selects DefaultMaxDepth.
func New(fs afero.Fs, tables *keywords.Tables, goos string, maxDepth int) *Resolver {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{
		fs:       fs,
		tables:   tables,
		goos:     goos,
		maxDepth: maxDepth,
	}
}

// MaxDepth returns the configured depth bound.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// Resolve returns the preferred executable in dir, or "" when none was
// found within the default depth.
func (r *Resolver) Resolve(dir string) string {
	return r.ResolveDepth(dir, r.maxDepth)
}

// ResolveDepth is Resolve with an explicit depth bound. Depth 0 only looks
// at the files directly inside dir.
func (r *Resolver) ResolveDepth(dir string, depth int) string {
	return prefer(dir, r.Candidates(dir, depth))
}

// Candidates returns every acceptable executable under dir in traversal
// order.
func (r *Resolver) Candidates(dir string, depth int) []string {
	var found []string
	r.walk(dir, 0, depth, &found)
	return found
}

func (r *Resolver) walk(dir string, level, depth int, found *[]string) {
	if len(*found) >= maxCandidates {
		return
	}

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("skipping unreadable folder")
		return
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			// macOS bundles are folders that launch like files
			if r.acceptable(entry.Name()) {
				*found = append(*found, path)
				continue
			}
			if !r.tables.IsDeniedDir(entry.Name()) {
				subdirs = append(subdirs, path)
			}
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}
		if r.acceptable(entry.Name()) || r.isBareBinary(entry.Name(), uint32(entry.Mode().Perm())) {
			*found = append(*found, path)
		}
		if len(*found) >= maxCandidates {
			return
		}
	}

	if level >= depth {
		return
	}
	for _, sub := range subdirs {
		r.walk(sub, level+1, depth, found)
	}
}

func (r *Resolver) acceptable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || !slices.Contains(r.tables.ExecutableExtensions(r.goos), ext) {
		return false
	}
	return !r.tables.IsDeniedExecutable(name)
}

// isBareBinary accepts extensionless files with an executable bit on
// Unix-like hosts.
func (r *Resolver) isBareBinary(name string, perm uint32) bool {
	if r.goos == "windows" || filepath.Ext(name) != "" {
		return false
	}
	return perm&0o111 != 0 && !r.tables.IsDeniedExecutable(name)
}

// Key folds a name to lower-case letters and digits for loose comparison.
func Key(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// prefer picks the candidate whose name contains the install folder name,
// then one whose name is contained in it, then the first found.
func prefer(dir string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	dirKey := Key(filepath.Base(dir))
	if dirKey != "" {
		for _, c := range candidates {
			if strings.Contains(stemKey(c), dirKey) {
				return c
			}
		}
		for _, c := range candidates {
			if stem := stemKey(c); len(stem) >= 3 && strings.Contains(dirKey, stem) {
				return c
			}
		}
	}
	return candidates[0]
}

func stemKey(path string) string {
	base := filepath.Base(path)
	return Key(strings.TrimSuffix(base, filepath.Ext(base)))
}
