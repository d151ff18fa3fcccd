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

package scanner

// State is the lifecycle of the most recent scan. A scan never ends in a
// failed state: probe failures only add diagnostics.
type State int32

const (
	Idle State = iota
	Scanning
	Completed
	CompletedWithErrors
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Completed:
		return "completed"
	case CompletedWithErrors:
		return "completedWithErrors"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its string form for JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
