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

package helpers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/adrg/xdg"
)

// NormalizePathForComparison normalizes a path for case-insensitive
// comparison across hosts. Both separators become forward slashes, so
// Windows install paths compare the same on every OS.
func NormalizePathForComparison(p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return strings.ToLower(p)
}

// PathHasPrefix checks if path is within root directory, handling separator
// boundaries correctly. "c:/games2/x" is not inside "c:/games". Empty paths
// never match anything.
func PathHasPrefix(p, root string) bool {
	normPath := NormalizePathForComparison(p)
	normRoot := NormalizePathForComparison(root)

	if normPath == "" || normRoot == "" {
		return false
	}

	if normPath == normRoot {
		return true
	}

	// Ensure root ends with separator to avoid "games" matching "games2"
	if !strings.HasSuffix(normRoot, "/") {
		normRoot += "/"
	}

	return strings.HasPrefix(normPath, normRoot)
}

// PathsOverlap reports whether two install paths are equal or one contains
// the other.
func PathsOverlap(a, b string) bool {
	return PathHasPrefix(a, b) || PathHasPrefix(b, a)
}

// ConfigDir returns the folder holding config.toml.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir returns the folder for persistent service data.
func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// LogDir returns the folder log files are written to.
func LogDir() string {
	return filepath.Join(os.TempDir(), config.AppName)
}

// EnsureDirectories creates the config, data and log folders.
func EnsureDirectories() error {
	for _, dir := range []string{ConfigDir(), DataDir(), LogDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
