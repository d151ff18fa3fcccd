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

// Package scanner runs the platform probes concurrently and turns their
// candidates into a single deduplicated list of installed games.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/games/dedup"
	"github.com/GamePathAI/gamepath-core/pkg/games/normalize"
	"github.com/GamePathAI/gamepath-core/pkg/helpers/syncutil"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrProbeTimeout = errors.New("probe timed out")
	ErrProbePanic   = errors.New("probe panicked")
)

// Options narrow a single scan. With scan coalescing on, callers passing
// equal options join one in-flight scan. That scan does not depend on any
// caller's context: a caller whose context ends stops waiting and gets a
// canceled result, while the scan runs on for the others.
type Options struct {
	// Platforms limits the scan to probes of these platforms. Empty means
	// all probes.
	Platforms []platforms.ID
	// Timeout overrides the configured per-probe timeout when positive.
	Timeout time.Duration
}

func (o Options) key() string {
	ids := make([]string, 0, len(o.Platforms))
	for _, p := range o.Platforms {
		ids = append(ids, string(p))
	}
	sort.Strings(ids)
	return strings.Join(ids, ",") + "|" + o.Timeout.String()
}

// Hook is called with every finished scan result.
type Hook func(games.Result)

type Option func(*Scanner)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Scanner) {
		s.clock = clock
	}
}

func WithDeduplicator(d *dedup.Deduplicator) Option {
	return func(s *Scanner) {
		s.dedup = d
	}
}

// Scanner owns a fixed probe set. It is safe for concurrent use; overlapping
// scans run independently unless coalescing is enabled in the config.
type Scanner struct {
	clock  clockwork.Clock
	cfg    *config.Instance
	dedup  *dedup.Deduplicator
	last   *games.Result
	probes []platforms.Probe
	hooks  []Hook
	group  singleflight.Group
	mu     syncutil.RWMutex
	active atomic.Int32
	state  atomic.Int32
}

func New(cfg *config.Instance, probes []platforms.Probe, opts ...Option) *Scanner {
	s := &Scanner{
		clock:  clockwork.NewRealClock(),
		cfg:    cfg,
		dedup:  dedup.New(dedup.DefaultSimilarity),
		probes: probes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Probes returns the registered probes in registration order.
func (s *Scanner) Probes() []platforms.Probe {
	return slices.Clone(s.probes)
}

func (s *Scanner) State() State {
	return State(s.state.Load())
}

// LastResult returns the most recently finished scan.
func (s *Scanner) LastResult() (games.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return games.Result{}, false
	}
	return cloneResult(*s.last), true
}

// OnComplete registers a hook run after every scan.
func (s *Scanner) OnComplete(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// ScanForGames runs every enabled probe and returns the merged result.
func (s *Scanner) ScanForGames(ctx context.Context) games.Result {
	return s.Scan(ctx, Options{})
}

// Scan runs the probes selected by opts. It never fails: probe errors,
// timeouts and panics are reported in Result.Errors, one per probe.
func (s *Scanner) Scan(ctx context.Context, opts Options) games.Result {
	if !s.cfg.CoalesceScans() {
		return s.scan(ctx, opts)
	}

	// The shared scan outlives any single caller; each probe is still bounded
	// by its own timeout.
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(opts.key(), func() (any, error) {
		return s.scan(detached, opts), nil
	})
	select {
	case r := <-ch:
		res, _ := r.Val.(games.Result)
		if r.Shared {
			log.Debug().Str("session", res.Session).Msg("joined in-flight scan")
			return cloneResult(res)
		}
		return res
	case <-ctx.Done():
		log.Debug().Err(ctx.Err()).Msg("stopped waiting for in-flight scan")
		return s.canceled(ctx.Err())
	}
}

// canceled is the result for a caller that gave up on a coalesced scan.
func (s *Scanner) canceled(err error) games.Result {
	now := s.clock.Now()
	return games.Result{
		Session:    uuid.NewString(),
		StartedAt:  now,
		FinishedAt: now,
		Data:       []games.GameRecord{},
		Errors:     []string{fmt.Sprintf("scan canceled: %v", err)},
	}
}

func (s *Scanner) selected(opts Options) []platforms.Probe {
	out := make([]platforms.Probe, 0, len(s.probes))
	for _, p := range s.probes {
		if len(opts.Platforms) > 0 && !slices.Contains(opts.Platforms, p.Platform()) {
			continue
		}
		if s.cfg.IsProbeDisabled(p.ID()) {
			log.Debug().Str("probe", p.ID()).Msg("probe disabled in config")
			continue
		}
		if !p.Supported() {
			continue
		}
		out = append(out, p)
	}
	return out
}

type probeResult struct {
	err        error
	candidates []platforms.Candidate
	took       time.Duration
}

func (s *Scanner) scan(ctx context.Context, opts Options) games.Result {
	s.active.Add(1)
	s.state.Store(int32(Scanning))

	res := games.Result{
		Session:   uuid.NewString(),
		StartedAt: s.clock.Now(),
		Data:      []games.GameRecord{},
		Errors:    []string{},
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.cfg.ProbeTimeout()
	}

	probes := s.selected(opts)
	log.Info().
		Str("session", res.Session).
		Int("probes", len(probes)).
		Msg("starting game scan")

	results := make([]probeResult, len(probes))
	var g errgroup.Group
	if limit := s.cfg.MaxConcurrentProbes(); limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range probes {
		g.Go(func() error {
			results[i] = s.runProbe(ctx, p, timeout)
			return nil
		})
	}
	_ = g.Wait()

	var candidates []platforms.Candidate
	for i, p := range probes {
		r := results[i]
		stat := games.ProbeStat{
			ID:       p.ID(),
			Platform: p.Platform(),
			Duration: r.took.String(),
		}
		if r.err != nil {
			stat.Error = r.err.Error()
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", p.ID(), r.err))
		}
		for _, c := range r.candidates {
			if s.cfg.IsPathIgnored(c.InstallPath) {
				log.Debug().Str("path", c.InstallPath).Msg("ignoring game path")
				continue
			}
			candidates = append(candidates, c)
			stat.Found++
		}
		res.Probes = append(res.Probes, stat)
	}

	res.Data = s.dedup.Dedup(normalize.All(candidates))
	res.FinishedAt = s.clock.Now()

	log.Info().
		Str("session", res.Session).
		Int("games", len(res.Data)).
		Int("errors", len(res.Errors)).
		Dur("took", res.FinishedAt.Sub(res.StartedAt)).
		Msg("game scan finished")

	s.finish(res)
	return res
}

func (s *Scanner) finish(res games.Result) {
	s.mu.Lock()
	stored := cloneResult(res)
	s.last = &stored
	hooks := slices.Clone(s.hooks)
	if s.active.Add(-1) == 0 {
		if len(res.Errors) > 0 {
			s.state.Store(int32(CompletedWithErrors))
		} else {
			s.state.Store(int32(Completed))
		}
	}
	s.mu.Unlock()

	for _, h := range hooks {
		h(cloneResult(res))
	}
}

// runProbe scans a single probe under its own timeout. A probe that ignores
// cancellation is abandoned when the timeout fires and its late results are
// discarded.
func (s *Scanner) runProbe(ctx context.Context, p platforms.Probe, timeout time.Duration) probeResult {
	start := s.clock.Now()
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan probeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("probe", p.ID()).
					Interface("panic", r).
					Msg("recovered from probe panic")
				done <- probeResult{err: fmt.Errorf("%w: %v", ErrProbePanic, r)}
			}
		}()
		c, err := p.Scan(pctx)
		done <- probeResult{candidates: c, err: err}
	}()

	var r probeResult
	select {
	case r = <-done:
	case <-pctx.Done():
		if ctx.Err() != nil {
			r.err = fmt.Errorf("scan canceled: %w", ctx.Err())
		} else {
			r.err = fmt.Errorf("%w after %s", ErrProbeTimeout, timeout)
		}
	}
	r.took = s.clock.Since(start)

	ev := log.Debug()
	if r.err != nil {
		ev = log.Warn().Err(r.err)
	}
	ev.Str("probe", p.ID()).
		Int("candidates", len(r.candidates)).
		Dur("took", r.took).
		Msg("probe finished")
	return r
}

func cloneResult(r games.Result) games.Result {
	r.Data = slices.Clone(r.Data)
	r.Errors = slices.Clone(r.Errors)
	r.Probes = slices.Clone(r.Probes)
	return r
}
