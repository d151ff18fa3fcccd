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

// Package client is a JSON-RPC client for a running GamePath API server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout  = errors.New("request timed out")
	ErrRequestCanceled = errors.New("request canceled")
	ErrInvalidParams   = errors.New("invalid params")
)

const APIPath = "/api"

// RPCError is an error object returned by the server.
type RPCError struct {
	Message string
	Code    int
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

type Client struct {
	dialer  *websocket.Dialer
	url     string
	timeout time.Duration
}

// New returns a client for the API server listening on addr (host:port).
func New(addr string) *Client {
	u := url.URL{Scheme: "ws", Host: addr, Path: APIPath}
	return &Client{
		dialer:  websocket.DefaultDialer,
		url:     u.String(),
		timeout: config.APIRequestTimeout,
	}
}

// NewLocal returns a client for the local service, preferring the named
// pipe where the platform has one.
func NewLocal(cfg *config.Instance) *Client {
	c := New(cfg.APIListen())
	if cfg.NamedPipeEnabled() {
		if d := pipeDialer(config.PipeName); d != nil {
			c.dialer = d
			c.url = (&url.URL{Scheme: "ws", Host: "localhost", Path: APIPath}).String()
		}
	}
	return c
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}
	return conn, nil
}

func closeConn(conn *websocket.Conn) {
	if err := conn.Close(); err != nil {
		log.Debug().Err(err).Msg("error closing websocket")
	}
}

// Call invokes method with params, which may be nil, and returns the raw
// result.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req := models.RequestObject{
		JSONRPC: "2.0",
		Method:  method,
	}
	id := models.NewStringID(uuid.NewString())
	req.ID = &id

	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		req.Params = data
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeConn(conn)

	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	resp, err := readMatch(ctx, conn, c.timeout, func(msg []byte) (*models.RawResponseObject, bool) {
		var r models.RawResponseObject
		if err := json.Unmarshal(msg, &r); err != nil || r.JSONRPC != "2.0" {
			return nil, false
		}
		return &r, r.ID.String() == id.String()
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &RPCError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	return resp.Result, nil
}

// WaitNotification blocks until the server sends a notification of the
// given method and returns its params.
func (c *Client) WaitNotification(ctx context.Context, method string) (json.RawMessage, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeConn(conn)

	n, err := readMatch(ctx, conn, c.timeout, func(msg []byte) (*rawNotification, bool) {
		var r rawNotification
		if err := json.Unmarshal(msg, &r); err != nil {
			return nil, false
		}
		return &r, r.Method == method
	})
	if err != nil {
		return nil, err
	}
	return n.Params, nil
}

type rawNotification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// readMatch returns the first message accepted by match, giving up after
// timeout or when ctx is done.
func readMatch[T any](
	ctx context.Context,
	conn *websocket.Conn,
	timeout time.Duration,
	match func([]byte) (*T, bool),
) (*T, error) {
	type result struct {
		val *T
		err error
	}
	done := make(chan result, 1)

	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				done <- result{err: fmt.Errorf("failed to read message: %w", err)}
				return
			}
			if v, ok := match(msg); ok {
				done <- result{val: v}
				return
			}
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.val, r.err
	case <-timer.C:
		closeConn(conn)
		return nil, ErrRequestTimeout
	case <-ctx.Done():
		closeConn(conn)
		return nil, ErrRequestCanceled
	}
}
