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

package requests

import (
	"context"
	"encoding/json"

	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games/running"
	"github.com/GamePathAI/gamepath-core/pkg/games/scanner"
)

// RequestEnv is everything a method handler may use to serve one request.
type RequestEnv struct {
	Context  context.Context
	Config   *config.Instance
	Scanner  *scanner.Scanner
	Detector *running.Detector
	ID       models.RPCID
	Params   json.RawMessage
}
