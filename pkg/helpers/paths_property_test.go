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
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// ============================================================================
// NormalizePathForComparison Property Tests
// ============================================================================

// TestPropertyNormalizePathIdempotent verifies normalizing twice gives same result.
func TestPropertyNormalizePathIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		// Generate path-like strings
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./\\]{0,50}`).Draw(t, "path")

		once := NormalizePathForComparison(path)
		twice := NormalizePathForComparison(once)

		if once != twice {
			t.Fatalf("Not idempotent: first=%q, second=%q", once, twice)
		}
	})
}

// TestPropertyNormalizePathDeterministic verifies same input always gives same output.
func TestPropertyNormalizePathDeterministic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./\\]{0,50}`).Draw(t, "path")

		result1 := NormalizePathForComparison(path)
		result2 := NormalizePathForComparison(path)

		if result1 != result2 {
			t.Fatalf("Non-deterministic: %q vs %q for input %q", result1, result2, path)
		}
	})
}

// TestPropertyNormalizePathLowercase verifies result is always lowercase.
func TestPropertyNormalizePathLowercase(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./\\]{0,50}`).Draw(t, "path")

		result := NormalizePathForComparison(path)

		if result != strings.ToLower(result) {
			t.Fatalf("Result not lowercase: %q from input %q", result, path)
		}
	})
}

// TestPropertyNormalizePathNoBackslashes verifies Windows separators are
// converted on every host.
func TestPropertyNormalizePathNoBackslashes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./\\]{0,50}`).Draw(t, "path")

		result := NormalizePathForComparison(path)

		if strings.Contains(result, "\\") {
			t.Fatalf("Result contains backslash: %q from input %q", result, path)
		}
	})
}

// ============================================================================
// PathHasPrefix Property Tests
// ============================================================================

// TestPropertyPathHasPrefixReflexive verifies path is always within itself.
func TestPropertyPathHasPrefixReflexive(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./]{1,50}`).Draw(t, "path")

		if !PathHasPrefix(path, path) {
			t.Fatalf("PathHasPrefix(%q, %q) should be true (reflexive)", path, path)
		}
	})
}

// TestPropertyPathHasPrefixChildInParent verifies child path is in parent.
func TestPropertyPathHasPrefixChildInParent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		parent := "/" + rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "parent")
		child := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "child")
		fullPath := parent + "/" + child

		if !PathHasPrefix(fullPath, parent) {
			t.Fatalf("Child %q should be in parent %q", fullPath, parent)
		}
	})
}

// TestPropertyPathHasPrefixEmptyRootRejectsPaths verifies empty root rejects non-empty paths.
func TestPropertyPathHasPrefixEmptyRootRejectsPaths(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := "/" + rapid.StringMatching(`[a-z]{1,20}`).Draw(t, "path")

		if PathHasPrefix(path, "") {
			t.Fatalf("Empty root should reject non-empty path %q", path)
		}
	})
}

// TestPropertyPathHasPrefixSiblingsDontMatch verifies sibling dirs don't match.
func TestPropertyPathHasPrefixSiblingsDontMatch(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "base")
		suffix1 := rapid.StringMatching(`[a-z]{1,5}`).Draw(t, "suffix1")
		suffix2 := rapid.StringMatching(`[a-z]{1,5}`).Draw(t, "suffix2")

		// Skip if suffixes are the same
		if suffix1 == suffix2 {
			return
		}

		dir1 := "/" + base + suffix1
		dir2 := "/" + base + suffix2
		file := dir2 + "/file.txt"

		// dir2/file should NOT be in dir1 (they're siblings with shared prefix)
		if PathHasPrefix(file, dir1) {
			t.Fatalf("Sibling match bug: %q should not be in %q", file, dir1)
		}
	})
}
