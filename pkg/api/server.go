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

// Package api serves the JSON-RPC and REST interface the GamePath UI talks
// to. The same router listens on TCP and, on Windows, on a named pipe.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/api/methods"
	apimiddleware "github.com/GamePathAI/gamepath-core/pkg/api/middleware"
	"github.com/GamePathAI/gamepath-core/pkg/api/models"
	"github.com/GamePathAI/gamepath-core/pkg/api/models/requests"
	"github.com/GamePathAI/gamepath-core/pkg/api/notifications"
	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/running"
	"github.com/GamePathAI/gamepath-core/pkg/games/scanner"
	"github.com/GamePathAI/gamepath-core/pkg/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const notificationQueueSize = 32

type methodFunc func(requests.RequestEnv) (any, error)

var methodMap = map[string]methodFunc{
	models.MethodGamesScan:    methods.HandleGamesScan,
	models.MethodGamesRunning: methods.HandleGamesRunning,
	models.MethodGamesState:   methods.HandleGamesState,
	models.MethodVersion:      methods.HandleVersion,
}

type Server struct {
	cfg           *config.Instance
	scanner       *scanner.Scanner
	detector      *running.Detector
	melody        *melody.Melody
	limiter       *apimiddleware.IPRateLimiter
	notifications chan models.Notification
}

// NewServer wires the API to a scanner. Every finished scan is announced
// to connected sockets with a games.scanned notification.
func NewServer(cfg *config.Instance, s *scanner.Scanner, d *running.Detector) *Server {
	srv := &Server{
		cfg:           cfg,
		scanner:       s,
		detector:      d,
		melody:        melody.New(),
		limiter:       apimiddleware.NewIPRateLimiter(nil),
		notifications: make(chan models.Notification, notificationQueueSize),
	}
	srv.melody.HandleMessage(apimiddleware.WebSocketRateLimitHandler(srv.limiter, srv.handleWSMessage))
	s.OnComplete(func(res games.Result) {
		notifications.GamesScanned(srv.notifications, &res)
	})
	return srv
}

func (s *Server) allowedOrigins() []string {
	origins := []string{"http://localhost:*", "http://127.0.0.1:*", "tauri://localhost", "https://tauri.localhost"}
	return append(origins, s.cfg.AllowedOrigins()...)
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Accept"},
	}))

	s.melody.Upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || s.originAllowed(origin)
	}

	r.Group(func(r chi.Router) {
		r.Use(apimiddleware.HTTPRateLimitMiddleware(s.limiter))
		r.Use(middleware.Timeout(config.APIRequestTimeout))
		r.Get("/api/games", s.handleGamesREST)
	})

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		if err := s.melody.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	return r
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins() {
		prefix, wildcard := strings.CutSuffix(allowed, "*")
		if origin == allowed || (wildcard && strings.HasPrefix(origin, prefix)) {
			return true
		}
	}
	return false
}

// Serve listens on the configured address, plus the named pipe on Windows,
// until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.APIListen())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.APIListen(), err)
	}
	listeners := []net.Listener{ln}

	if s.cfg.NamedPipeEnabled() {
		pipe, err := listenPipe(config.PipeName)
		if err != nil {
			log.Warn().Err(err).Msg("failed to open named pipe, serving TCP only")
		} else if pipe != nil {
			listeners = append(listeners, pipe)
		}
	}

	return s.serveListeners(ctx, listeners...)
}

func (s *Server) serveListeners(ctx context.Context, listeners ...net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.limiter.StartCleanup(ctx)
	go s.broadcastNotifications(ctx)

	errs := make(chan error, len(listeners))
	for _, ln := range listeners {
		log.Info().Str("addr", ln.Addr().String()).Msg("api listening")
		go func() {
			errs <- srv.Serve(ln)
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.melody.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing websocket sessions")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down api server")
	}

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("api server failed: %w", serveErr)
	}
	return nil
}

func (s *Server) broadcastNotifications(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-s.notifications:
			data, err := json.Marshal(models.NotificationObject{
				JSONRPC: "2.0",
				Method:  n.Method,
				Params:  n.Params,
			})
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}
			if err := s.melody.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

// handleGamesREST runs a scan for GET /api/games. Query parameters mirror
// the games.scan params: ?platforms=steam,epic&timeout=10s.
func (s *Server) handleGamesREST(w http.ResponseWriter, r *http.Request) {
	var params models.ScanParams
	if p := r.URL.Query().Get("platforms"); p != "" {
		params.Platforms = strings.Split(p, ",")
	}
	if t := r.URL.Query().Get("timeout"); t != "" {
		params.Timeout = &t
	}

	opts, err := methods.ScanOptions(&params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.scanner.Scan(r.Context(), opts)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("writing games response")
	}
}

func (s *Server) env(ctx context.Context, req *models.RequestObject) requests.RequestEnv {
	return requests.RequestEnv{
		Context:  ctx,
		Config:   s.cfg,
		Scanner:  s.scanner,
		Detector: s.detector,
		ID:       *req.ID,
		Params:   req.Params,
	}
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	if bytes.Equal(msg, []byte("ping")) {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	if !json.Valid(msg) {
		log.Warn().Msg("websocket message is not valid json")
		writeResponse(session, models.ResponseObject{ID: models.NullRPCID, Error: &models.ErrorParseError})
		return
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil || req.JSONRPC != "2.0" || req.Method == "" {
		writeResponse(session, models.ResponseObject{ID: models.NullRPCID, Error: &models.ErrorInvalidRequest})
		return
	}

	if req.ID.IsNotification() {
		log.Debug().Str("method", req.Method).Msg("ignoring client notification")
		return
	}

	fn, ok := methodMap[strings.ToLower(req.Method)]
	if !ok {
		writeResponse(session, models.ResponseObject{ID: *req.ID, Error: &models.ErrorMethodNotFound})
		return
	}

	// Scans can take a while; answer from a goroutine so other requests on
	// the socket are not queued behind it.
	go func() {
		log.Debug().Str("method", req.Method).Str("id", req.ID.String()).Msg("received request")
		ctx, cancel := context.WithTimeout(context.Background(), config.APIRequestTimeout)
		defer cancel()
		result, err := fn(s.env(ctx, &req))
		if err != nil {
			writeResponse(session, models.ResponseObject{ID: *req.ID, Error: errorObject(err)})
			return
		}
		writeResponse(session, models.ResponseObject{ID: *req.ID, Result: result})
	}()
}

func errorObject(err error) *models.ErrorObject {
	var verr *validation.Error
	if errors.Is(err, validation.ErrInvalidParams) || errors.Is(err, validation.ErrMissingParams) ||
		errors.As(err, &verr) {
		return &models.ErrorObject{Code: models.ErrorInvalidParams.Code, Message: err.Error()}
	}
	log.Error().Err(err).Msg("api method failed")
	return &models.ErrorObject{Code: models.ErrorInternalError.Code, Message: err.Error()}
}

func writeResponse(session *melody.Session, resp models.ResponseObject) {
	resp.JSONRPC = "2.0"
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("marshalling response")
		return
	}
	if err := session.Write(data); err != nil {
		log.Error().Err(err).Msg("sending response")
	}
}
