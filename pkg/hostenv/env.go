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

// Package hostenv bundles the host capabilities game probes depend on:
// filesystem, registry, environment variables and the operating system.
// Probes never touch os or the registry directly so every lookup can be
// replayed against in-memory fixtures.
package hostenv

import (
	"os"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// Env is the capability set handed to every probe.
type Env struct {
	Fs       afero.Fs
	Registry Registry
	Getenv   func(string) string
	GOOS     string
	HomeDir  string
}

// Native returns an Env backed by the real host.
func Native() *Env {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Env{
		Fs:       afero.NewOsFs(),
		Registry: NativeRegistry(),
		Getenv:   os.Getenv,
		GOOS:     runtime.GOOS,
		HomeDir:  home,
	}
}

// NewMemEnv returns an Env with an in-memory filesystem and registry for the
// given GOOS. Environment variables are read from vars.
func NewMemEnv(goos string, vars map[string]string) (*Env, *MemRegistry) {
	reg := NewMemRegistry()
	return &Env{
		Fs:       afero.NewMemMapFs(),
		Registry: reg,
		Getenv:   MapGetenv(vars),
		GOOS:     goos,
		HomeDir:  vars["HOME"],
	}, reg
}

// MapGetenv returns a Getenv func reading from a fixed map. Lookups are case
// insensitive, matching Windows environment semantics.
func MapGetenv(vars map[string]string) func(string) string {
	folded := make(map[string]string, len(vars))
	for k, v := range vars {
		folded[strings.ToUpper(k)] = v
	}
	return func(key string) string {
		return folded[strings.ToUpper(key)]
	}
}

// Var returns the value of an environment variable, or "" when unset.
func (e *Env) Var(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// IsWindows reports whether the environment describes a Windows host.
func (e *Env) IsWindows() bool {
	return e.GOOS == "windows"
}

// DirExists reports whether path exists and is a directory.
func (e *Env) DirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := e.Fs.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file.
func (e *Env) FileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := e.Fs.Stat(path)
	return err == nil && !info.IsDir()
}
