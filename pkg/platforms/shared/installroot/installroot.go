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

// Package installroot locates storefront install roots from, in order, a
// configured override, registry values and well-known default locations.
package installroot

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/helpers"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/rs/zerolog/log"
)

var envVarRe = regexp.MustCompile(`%([^%]+)%`)

// RegValue is a registry string value holding a directory. Suffix is joined
// onto the value when set.
type RegValue struct {
	Path   string
	Name   string
	Suffix string
	Hive   hostenv.Hive
}

// Query describes where a storefront's root may live.
type Query struct {
	// Override is the user-configured directory. It wins when it exists.
	Override string
	// Registry values are only consulted on Windows.
	Registry []RegValue
	// Defaults may contain %VAR% references and a leading "~".
	Defaults []string
}

// Expand resolves %VAR% references and a leading "~" against env. It
// returns "" when a referenced variable is unset.
func Expand(env *hostenv.Env, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	missing := false
	p = envVarRe.ReplaceAllStringFunc(p, func(m string) string {
		v := env.Var(strings.Trim(m, "%"))
		if v == "" {
			missing = true
		}
		return v
	})
	if missing {
		return ""
	}

	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if env.HomeDir == "" {
			return ""
		}
		p = filepath.Join(env.HomeDir, p[1:])
	}
	return p
}

// Find returns every existing directory the query names, in priority order
// and without duplicates.
func Find(env *hostenv.Env, q Query) []string {
	var roots []string
	seen := make(map[string]struct{})
	add := func(dir, via string) {
		if dir == "" || !env.DirExists(dir) {
			return
		}
		key := helpers.NormalizePathForComparison(dir)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		log.Debug().Str("dir", dir).Str("via", via).Msg("found install root")
		roots = append(roots, dir)
	}

	if q.Override != "" {
		dir := Expand(env, q.Override)
		if env.DirExists(dir) {
			add(dir, "config")
		} else {
			log.Warn().Msgf("user-configured install directory not found: %s", q.Override)
		}
	}

	if env.IsWindows() {
		for _, rv := range q.Registry {
			v, ok := env.Registry.GetString(rv.Hive, rv.Path, rv.Name)
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			dir := strings.TrimSpace(v)
			if rv.Suffix != "" {
				dir = filepath.Join(dir, rv.Suffix)
			}
			add(dir, "registry")
		}
	}

	for _, d := range q.Defaults {
		add(Expand(env, d), "default")
	}

	return roots
}

// First returns the highest priority existing root, or "".
func First(env *hostenv.Env, q Query) string {
	roots := Find(env, q)
	if len(roots) == 0 {
		return ""
	}
	return roots[0]
}

// Drives lists the existing drive roots of a Windows host, C: to Z:.
func Drives(env *hostenv.Env) []string {
	if !env.IsWindows() {
		return nil
	}
	var drives []string
	for c := 'C'; c <= 'Z'; c++ {
		root := string(c) + `:\`
		if env.DirExists(root) {
			drives = append(drives, root)
		}
	}
	return drives
}

// OnDrives joins rel onto every drive root and returns the ones that exist.
func OnDrives(env *hostenv.Env, rel string) []string {
	var dirs []string
	for _, d := range Drives(env) {
		dir := filepath.Join(d, rel)
		if env.DirExists(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
