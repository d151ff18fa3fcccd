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

package config

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

const (
	ScannerModeNative = "native"
	ScannerModeMock   = "mock"

	DefaultProbeTimeout = 20 * time.Second
	DefaultMaxDepth     = 3
)

type Scanner struct {
	Mode                string             `toml:"mode"`
	ProbeTimeout        string             `toml:"probe_timeout,omitempty"`
	Disabled            []string           `toml:"disabled,omitempty"`
	IgnorePaths         []string           `toml:"ignore_paths,omitempty,multiline"`
	ignorePathRe        []*regexp.Regexp
	Launchers           []LaunchersDefault `toml:"launcher,omitempty"`
	MaxDepth            int                `toml:"max_depth"`
	MaxConcurrentProbes int                `toml:"max_concurrent_probes,omitempty"`
	Coalesce            bool               `toml:"coalesce,omitempty"`
	WatchManifests      bool               `toml:"watch_manifests,omitempty"`
}

// LaunchersDefault overrides where a probe looks for its storefront.
type LaunchersDefault struct {
	Launcher   string   `toml:"launcher"`
	InstallDir string   `toml:"install_dir,omitempty"`
	ExtraDirs  []string `toml:"extra_dirs,omitempty"`
}

func (c *Instance) LookupLauncherDefaults(launcherID string) (LaunchersDefault, bool) {
	if c == nil {
		return LaunchersDefault{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, defaultLauncher := range c.vals.Scanner.Launchers {
		if strings.EqualFold(defaultLauncher.Launcher, launcherID) {
			return defaultLauncher, true
		}
	}
	return LaunchersDefault{}, false
}

func (c *Instance) ScannerMode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.Mode == "" {
		return ScannerModeNative
	}
	return strings.ToLower(c.vals.Scanner.Mode)
}

func (c *Instance) SetScannerMode(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scanner.Mode = mode
}

// ProbeTimeout returns the per-probe time budget. Unparseable or
// non-positive values fall back to DefaultProbeTimeout.
func (c *Instance) ProbeTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.ProbeTimeout == "" {
		return DefaultProbeTimeout
	}
	d, err := time.ParseDuration(c.vals.Scanner.ProbeTimeout)
	if err != nil || d <= 0 {
		return DefaultProbeTimeout
	}
	return d
}

func (c *Instance) MaxDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.MaxDepth < 0 {
		return DefaultMaxDepth
	}
	return c.vals.Scanner.MaxDepth
}

// MaxConcurrentProbes returns the probe concurrency limit, 0 meaning
// unlimited.
func (c *Instance) MaxConcurrentProbes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return max(c.vals.Scanner.MaxConcurrentProbes, 0)
}

func (c *Instance) CoalesceScans() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scanner.Coalesce
}

func (c *Instance) WatchManifests() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scanner.WatchManifests
}

func (c *Instance) IsProbeDisabled(probeID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.ContainsFunc(c.vals.Scanner.Disabled, func(s string) bool {
		return strings.EqualFold(s, probeID)
	})
}

// IsPathIgnored reports whether an install path matches one of the
// ignore_paths regexes.
func (c *Instance) IsPathIgnored(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return checkMatch(c.vals.Scanner.IgnorePaths, c.vals.Scanner.ignorePathRe, path)
}
