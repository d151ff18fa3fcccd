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

//go:build windows

package hostenv

import (
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

type nativeRegistry struct{}

// NativeRegistry returns a Registry backed by the Windows registry.
func NativeRegistry() Registry {
	return nativeRegistry{}
}

func rootKey(hive Hive) registry.Key {
	if hive == CurrentUser {
		return registry.CURRENT_USER
	}
	return registry.LOCAL_MACHINE
}

func (nativeRegistry) GetString(hive Hive, path, name string) (string, bool) {
	key, err := registry.OpenKey(rootKey(hive), path, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer func() {
		if closeErr := key.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing registry key")
		}
	}()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		return "", false
	}
	return value, true
}

func (nativeRegistry) SubKeys(hive Hive, path string) []string {
	key, err := registry.OpenKey(rootKey(hive), path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil
	}
	defer func() {
		if closeErr := key.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing registry key")
		}
	}()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("failed to enumerate registry sub keys")
		return nil
	}
	sort.Strings(names)
	return names
}
