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

package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/running"
	"github.com/GamePathAI/gamepath-core/pkg/games/scanner"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	vals := config.BaseDefaults
	vals.Scanner.Mode = config.ScannerModeMock
	cfg := config.NewInMemory(vals)
	env, _ := hostenv.NewMemEnv("windows", nil)
	s, err := scanner.NewForMode(cfg, env)
	require.NoError(t, err)

	return NewServer(cfg, s, running.NewDetector(func(context.Context) ([]running.Process, error) {
		return nil, nil
	}))
}

// startServer serves on a loopback listener and returns its address.
func startServer(t *testing.T, srv *Server) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serveListeners(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return ln.Addr().String()
}

func dialWS(t *testing.T, addr string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api", nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg string) models.RawResponseObject {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var resp models.RawResponseObject
		require.NoError(t, json.Unmarshal(data, &resp))
		if resp.Result != nil || resp.Error != nil {
			return resp
		}
	}
}

func TestWebSocket_Methods(t *testing.T) {
	t.Parallel()

	addr := startServer(t, newTestServer(t))
	conn := dialWS(t, addr)

	t.Run("version", func(t *testing.T) {
		resp := roundTrip(t, conn, `{"jsonrpc":"2.0","id":1,"method":"version"}`)
		require.Nil(t, resp.Error)
		assert.Equal(t, "1", resp.ID.String())

		var v models.VersionResponse
		require.NoError(t, json.Unmarshal(resp.Result, &v))
		assert.Equal(t, "mock", v.Mode)
	})

	t.Run("games_scan_with_filter", func(t *testing.T) {
		resp := roundTrip(t, conn, `{"jsonrpc":"2.0","id":"a","method":"games.scan","params":{"platforms":["steam"]}}`)
		require.Nil(t, resp.Error)

		var res games.Result
		require.NoError(t, json.Unmarshal(resp.Result, &res))
		require.Len(t, res.Data, 2)
		assert.Equal(t, platforms.Steam, res.Data[0].Platform)
	})

	t.Run("method_not_found", func(t *testing.T) {
		resp := roundTrip(t, conn, `{"jsonrpc":"2.0","id":2,"method":"games.launch"}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, models.ErrorMethodNotFound.Code, resp.Error.Code)
	})

	t.Run("invalid_params", func(t *testing.T) {
		resp := roundTrip(t, conn, `{"jsonrpc":"2.0","id":3,"method":"games.scan","params":{"platforms":["itch"]}}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, models.ErrorInvalidParams.Code, resp.Error.Code)
	})

	t.Run("parse_error", func(t *testing.T) {
		resp := roundTrip(t, conn, `{"jsonrpc":`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, models.ErrorParseError.Code, resp.Error.Code)
	})

	t.Run("wrong_version", func(t *testing.T) {
		resp := roundTrip(t, conn, `{"jsonrpc":"1.0","id":4,"method":"version"}`)
		require.NotNil(t, resp.Error)
		assert.Equal(t, models.ErrorInvalidRequest.Code, resp.Error.Code)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "pong", string(data))
	})
}

func TestWebSocket_ScanNotification(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	addr := startServer(t, srv)
	listener := dialWS(t, addr)
	caller := dialWS(t, addr)

	resp := roundTrip(t, caller, `{"jsonrpc":"2.0","id":1,"method":"games.scan"}`)
	require.Nil(t, resp.Error)

	require.NoError(t, listener.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, data, err := listener.ReadMessage()
		require.NoError(t, err)
		var n struct {
			Params struct {
				Session string `json:"session"`
				Games   int    `json:"games"`
			} `json:"params"`
			Method string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(data, &n))
		if n.Method == models.NotificationGamesScanned {
			assert.Equal(t, 8, n.Params.Games)
			assert.NotEmpty(t, n.Params.Session)
			return
		}
	}
}

func TestREST_Games(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	get := func(t *testing.T, path string) *http.Response {
		t.Helper()
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL+path, http.NoBody)
		require.NoError(t, err)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	t.Run("all_games", func(t *testing.T) {
		resp := get(t, "/api/games")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var res games.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Len(t, res.Data, 8)
		assert.NotNil(t, res.Errors)
	})

	t.Run("filtered", func(t *testing.T) {
		resp := get(t, "/api/games?platforms=xbox,gog")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var res games.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Len(t, res.Data, 2)
	})

	t.Run("bad_platform", func(t *testing.T) {
		resp := get(t, "/api/games?platforms=itch")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestOriginAllowed(t *testing.T) {
	t.Parallel()

	vals := config.BaseDefaults
	vals.API.AllowedOrigins = []string{"https://app.gamepath.ai"}
	srv := &Server{cfg: config.NewInMemory(vals)}

	assert.True(t, srv.originAllowed("http://localhost:1420"))
	assert.True(t, srv.originAllowed("tauri://localhost"))
	assert.True(t, srv.originAllowed("https://app.gamepath.ai"))
	assert.False(t, srv.originAllowed("https://evil.example"))
	assert.False(t, srv.originAllowed("http://localhostevil.example"))
}
