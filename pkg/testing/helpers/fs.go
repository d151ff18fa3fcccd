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
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// Executable is file content written with executable permissions by
// CreateDirectoryStructure.
type Executable string

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// CreateDirectoryStructure creates a directory tree rooted at "/". Map values
// are folders, string and []byte values are files, nil is an empty folder.
func (h *FSHelper) CreateDirectoryStructure(structure map[string]any) error {
	return h.CreateDirectoryStructureAt(string(filepath.Separator), structure)
}

// CreateDirectoryStructureAt is CreateDirectoryStructure below basePath.
func (h *FSHelper) CreateDirectoryStructureAt(basePath string, structure map[string]any) error {
	return h.createStructureRecursive(basePath, structure)
}

// createStructureRecursive recursively creates directory structures
func (h *FSHelper) createStructureRecursive(basePath string, structure map[string]any) error {
	for name, content := range structure {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := h.WriteFile(fullPath, []byte(v), 0o644); err != nil {
				return err
			}
		case Executable:
			if err := h.WriteFile(fullPath, []byte(v), 0o755); err != nil {
				return err
			}
		case []byte:
			if err := h.WriteFile(fullPath, v, 0o644); err != nil {
				return err
			}
		case map[string]any:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
			}
			if err := h.createStructureRecursive(fullPath, v); err != nil {
				return err
			}
		case nil:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create empty directory %s: %w", fullPath, err)
			}
		default:
			return fmt.Errorf("unsupported structure value for %s: %T", fullPath, content)
		}
	}
	return nil
}

// WriteFile writes content to a file, creating parent folders.
func (h *FSHelper) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for file %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, content, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// SpyFs wraps an afero.Fs and counts every call made through it.
type SpyFs struct {
	afero.Fs
	calls atomic.Int64
}

func NewSpyFs(inner afero.Fs) *SpyFs {
	return &SpyFs{Fs: inner}
}

// Calls returns the number of filesystem operations performed.
func (s *SpyFs) Calls() int64 {
	return s.calls.Load()
}

func (s *SpyFs) Create(name string) (afero.File, error) {
	s.calls.Add(1)
	return s.Fs.Create(name) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Mkdir(name string, perm os.FileMode) error {
	s.calls.Add(1)
	return s.Fs.Mkdir(name, perm) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) MkdirAll(path string, perm os.FileMode) error {
	s.calls.Add(1)
	return s.Fs.MkdirAll(path, perm) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Open(name string) (afero.File, error) {
	s.calls.Add(1)
	return s.Fs.Open(name) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	s.calls.Add(1)
	return s.Fs.OpenFile(name, flag, perm) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Remove(name string) error {
	s.calls.Add(1)
	return s.Fs.Remove(name) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) RemoveAll(path string) error {
	s.calls.Add(1)
	return s.Fs.RemoveAll(path) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Rename(oldname, newname string) error {
	s.calls.Add(1)
	return s.Fs.Rename(oldname, newname) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Stat(name string) (os.FileInfo, error) {
	s.calls.Add(1)
	return s.Fs.Stat(name) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Chmod(name string, mode os.FileMode) error {
	s.calls.Add(1)
	return s.Fs.Chmod(name, mode) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Chown(name string, uid, gid int) error {
	s.calls.Add(1)
	return s.Fs.Chown(name, uid, gid) //nolint:wrapcheck // passthrough
}

func (s *SpyFs) Chtimes(name string, atime, mtime time.Time) error {
	s.calls.Add(1)
	return s.Fs.Chtimes(name, atime, mtime) //nolint:wrapcheck // passthrough
}
