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

// Package models holds the JSON-RPC envelope and payload types of the
// GamePath API.
package models

import (
	"encoding/json"
)

const (
	NotificationGamesScanned = "games.scanned"
)

const (
	MethodGamesScan    = "games.scan"
	MethodGamesRunning = "games.running"
	MethodGamesState   = "games.state"
	MethodVersion      = "version"
)

type Notification struct {
	Params any
	Method string
}

type RequestObject struct {
	ID      *RPCID          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NotificationObject is a server-sent request without an id.
type NotificationObject struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}

// RawResponseObject is a response as decoded by clients.
type RawResponseObject struct {
	Error   *ErrorObject    `json:"error,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	ID      RPCID           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
}

var (
	ErrorParseError     = ErrorObject{Code: -32700, Message: "Parse error"}
	ErrorInvalidRequest = ErrorObject{Code: -32600, Message: "Invalid Request"}
	ErrorMethodNotFound = ErrorObject{Code: -32601, Message: "Method not found"}
	ErrorInvalidParams  = ErrorObject{Code: -32602, Message: "Invalid params"}
	ErrorInternalError  = ErrorObject{Code: -32603, Message: "Internal error"}
	ErrorRateLimited    = ErrorObject{Code: -32000, Message: "Rate limit exceeded"}
)
