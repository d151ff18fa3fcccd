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

package hostenv

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/GamePathAI/gamepath-core/pkg/helpers/syncutil"
)

// Hive selects a registry root key.
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
)

func (h Hive) String() string {
	if h == CurrentUser {
		return "HKCU"
	}
	return "HKLM"
}

// Registry is a read-only view of the Windows registry.
type Registry interface {
	// GetString returns a string value. ok is false when the key or value is
	// missing or not a string.
	GetString(hive Hive, path, name string) (value string, ok bool)
	// SubKeys returns the names of the direct children of a key, sorted.
	SubKeys(hive Hive, path string) []string
}

// MemRegistry is an in-memory Registry. Paths are matched case-insensitively.
type MemRegistry struct {
	values map[string]map[string]string
	names  map[string]string
	mu     syncutil.RWMutex
	calls  atomic.Int64
}

func NewMemRegistry() *MemRegistry {
	return &MemRegistry{
		values: make(map[string]map[string]string),
		names:  make(map[string]string),
	}
}

func cleanKey(hive Hive, path string) string {
	return hive.String() + `\` + strings.Trim(strings.ReplaceAll(path, "/", `\`), `\`)
}

func memKey(hive Hive, path string) string {
	return strings.ToLower(cleanKey(hive, path))
}

// Set stores a string value, creating the key if needed.
func (r *MemRegistry) Set(hive Hive, path, name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := memKey(hive, path)
	if r.values[k] == nil {
		r.values[k] = make(map[string]string)
		r.names[k] = cleanKey(hive, path)
	}
	r.values[k][strings.ToLower(name)] = value
}

// Calls returns the number of lookups made against the registry.
func (r *MemRegistry) Calls() int64 {
	return r.calls.Load()
}

func (r *MemRegistry) GetString(hive Hive, path, name string) (string, bool) {
	r.calls.Add(1)
	r.mu.RLock()
	defer r.mu.RUnlock()
	vals, ok := r.values[memKey(hive, path)]
	if !ok {
		return "", false
	}
	v, ok := vals[strings.ToLower(name)]
	return v, ok
}

func (r *MemRegistry) SubKeys(hive Hive, path string) []string {
	r.calls.Add(1)
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := memKey(hive, path) + `\`
	seen := make(map[string]struct{})
	var out []string
	for k := range r.values {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		child, _, _ := strings.Cut(r.names[k][len(prefix):], `\`)
		if child == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(child)]; dup {
			continue
		}
		seen[strings.ToLower(child)] = struct{}{}
		out = append(out, child)
	}
	sort.Strings(out)
	return out
}
