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
	"bytes"
	"encoding/binary"
	"strconv"
)

// Shortcut is one entry of a generated shortcuts.vdf.
type Shortcut struct {
	AppName      string
	Exe          string
	StartDir     string
	AppID        uint32
	LastPlayTime uint32
}

// ShortcutsVDF encodes shortcuts in Steam's binary VDF layout.
func ShortcutsVDF(shortcuts ...Shortcut) []byte {
	var buf bytes.Buffer
	writeKey := func(marker byte, key string) {
		buf.WriteByte(marker)
		buf.WriteString(key)
		buf.WriteByte(0x00)
	}
	writeString := func(key, value string) {
		writeKey(0x01, key)
		buf.WriteString(value)
		buf.WriteByte(0x00)
	}

	writeKey(0x00, "shortcuts")
	for i, s := range shortcuts {
		writeKey(0x00, strconv.Itoa(i))
		writeKey(0x02, "appid")
		_ = binary.Write(&buf, binary.LittleEndian, s.AppID)
		writeString("AppName", s.AppName)
		writeString("Exe", s.Exe)
		writeString("StartDir", s.StartDir)
		if s.LastPlayTime > 0 {
			writeKey(0x02, "LastPlayTime")
			_ = binary.Write(&buf, binary.LittleEndian, s.LastPlayTime)
		}
		buf.WriteByte(0x08)
	}
	buf.WriteByte(0x08)
	buf.WriteByte(0x08)
	return buf.Bytes()
}
