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

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubProbe struct {
	err        error
	release    chan struct{}
	started    chan struct{}
	id         string
	platform   platforms.ID
	candidates []platforms.Candidate
	calls      atomic.Int32
	delay      time.Duration
	panics     bool
	blocks     bool
	startOnce  sync.Once
}

func (p *stubProbe) ID() string             { return p.id }
func (p *stubProbe) Platform() platforms.ID { return p.platform }
func (*stubProbe) Supported() bool          { return true }

func (p *stubProbe) Scan(ctx context.Context) ([]platforms.Candidate, error) {
	p.calls.Add(1)
	if p.started != nil {
		p.startOnce.Do(func() { close(p.started) })
	}
	if p.panics {
		panic("boom from " + p.id)
	}
	if p.blocks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.release != nil {
		<-p.release
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.candidates, p.err
}

func cand(platform platforms.ID, name, path string) platforms.Candidate {
	return platforms.Candidate{
		Platform:       platform,
		Source:         platforms.SourceManifest,
		Name:           name,
		Key:            name,
		InstallPath:    path,
		ExecutablePath: path + `\game.exe`,
	}
}

func newConfig(edit func(v *config.Values)) *config.Instance {
	vals := config.BaseDefaults
	if edit != nil {
		edit(&vals)
	}
	return config.NewInMemory(vals)
}

func names(recs []games.GameRecord) []string {
	out := make([]string, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].Name)
	}
	return out
}

func TestScan_RegistrationOrder(t *testing.T) {
	t.Parallel()

	slow := &stubProbe{
		id:         "slow",
		platform:   platforms.Epic,
		delay:      30 * time.Millisecond,
		candidates: []platforms.Candidate{cand(platforms.Epic, "Alan Wake 2", `C:\Epic\AlanWake2`)},
	}
	fast := &stubProbe{
		id:         "fast",
		platform:   platforms.Steam,
		candidates: []platforms.Candidate{cand(platforms.Steam, "Portal 2", `C:\Steam\common\Portal 2`)},
	}

	s := New(newConfig(nil), []platforms.Probe{slow, fast})
	assert.Equal(t, Idle, s.State())

	res := s.ScanForGames(context.Background())
	assert.Equal(t, []string{"Alan Wake 2", "Portal 2"}, names(res.Data))
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Session)
	assert.Equal(t, Completed, s.State())
	require.Len(t, res.Probes, 2)
	assert.Equal(t, "slow", res.Probes[0].ID)
	assert.Equal(t, 1, res.Probes[1].Found)
}

func TestScan_AllProbesPanic(t *testing.T) {
	t.Parallel()

	probes := make([]platforms.Probe, 0, 7)
	for i, id := range platforms.AllIDs()[:7] {
		probes = append(probes, &stubProbe{id: fmt.Sprintf("p%d", i), platform: id, panics: true})
	}

	s := New(newConfig(nil), probes)
	res := s.ScanForGames(context.Background())

	require.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	require.Len(t, res.Errors, 7)
	for i, msg := range res.Errors {
		assert.Contains(t, msg, fmt.Sprintf("p%d: ", i))
		assert.Contains(t, msg, "probe panicked")
	}
	assert.Equal(t, CompletedWithErrors, s.State())
}

func TestScan_ProbeTimeout(t *testing.T) {
	t.Parallel()

	hung := &stubProbe{id: "hung", platform: platforms.Xbox, blocks: true}
	ok := &stubProbe{
		id:         "ok",
		platform:   platforms.GOG,
		candidates: []platforms.Candidate{cand(platforms.GOG, "Disco Elysium", `D:\GOG Games\Disco Elysium`)},
	}

	s := New(newConfig(nil), []platforms.Probe{hung, ok})
	res := s.Scan(context.Background(), Options{Timeout: 20 * time.Millisecond})

	assert.Equal(t, []string{"Disco Elysium"}, names(res.Data))
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "hung: probe timed out")
}

func TestScan_PartialErrorKeepsCandidates(t *testing.T) {
	t.Parallel()

	p := &stubProbe{
		id:       "steam",
		platform: platforms.Steam,
		err:      fmt.Errorf("%w: appmanifest_1.acf", platforms.ErrMalformed),
		candidates: []platforms.Candidate{
			cand(platforms.Steam, "Hades", `C:\Steam\common\Hades`),
		},
	}

	res := New(newConfig(nil), []platforms.Probe{p}).ScanForGames(context.Background())
	assert.Equal(t, []string{"Hades"}, names(res.Data))
	assert.Equal(t, []string{"steam: malformed data: appmanifest_1.acf"}, res.Errors)
	assert.Equal(t, "malformed data: appmanifest_1.acf", res.Probes[0].Error)
}

func TestScan_DeduplicatesAcrossProbes(t *testing.T) {
	t.Parallel()

	steam := &stubProbe{
		id:         "steam",
		platform:   platforms.Steam,
		candidates: []platforms.Candidate{cand(platforms.Steam, "Celeste", `C:\Games\Celeste`)},
	}
	heur := cand(platforms.Epic, "Celeste", `C:\Games\Celeste`)
	heur.Source = platforms.SourceHeuristic
	epic := &stubProbe{id: "epic", platform: platforms.Epic, candidates: []platforms.Candidate{heur}}

	res := New(newConfig(nil), []platforms.Probe{epic, steam}).ScanForGames(context.Background())
	require.Len(t, res.Data, 1)
	assert.Equal(t, platforms.Steam, res.Data[0].Platform)
}

func TestScan_Selection(t *testing.T) {
	t.Parallel()

	mk := func() []platforms.Probe {
		return []platforms.Probe{
			&stubProbe{
				id: "steam", platform: platforms.Steam,
				candidates: []platforms.Candidate{cand(platforms.Steam, "Hades", `C:\Steam\Hades`)},
			},
			&stubProbe{
				id: "gog", platform: platforms.GOG,
				candidates: []platforms.Candidate{cand(platforms.GOG, "Inscryption", `C:\GOG\Inscryption`)},
			},
		}
	}

	t.Run("platform_filter", func(t *testing.T) {
		t.Parallel()
		res := New(newConfig(nil), mk()).Scan(context.Background(), Options{Platforms: []platforms.ID{platforms.GOG}})
		assert.Equal(t, []string{"Inscryption"}, names(res.Data))
		assert.Len(t, res.Probes, 1)
	})

	t.Run("disabled_probe", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(func(v *config.Values) { v.Scanner.Disabled = []string{"STEAM"} })
		res := New(cfg, mk()).ScanForGames(context.Background())
		assert.Equal(t, []string{"Inscryption"}, names(res.Data))
	})

	t.Run("ignored_paths", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(func(v *config.Values) { v.Scanner.IgnorePaths = []string{`^c:/gog/`} })
		res := New(cfg, mk()).ScanForGames(context.Background())
		assert.Equal(t, []string{"Hades"}, names(res.Data))
		assert.Equal(t, 0, res.Probes[1].Found)
	})
}

func TestScan_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubProbe{id: "hung", platform: platforms.Steam, blocks: true}
	res := New(newConfig(nil), []platforms.Probe{p}).ScanForGames(ctx)
	assert.Empty(t, res.Data)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "hung: ")
}

func TestScan_HooksAndLastResult(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	p := &stubProbe{
		id: "steam", platform: platforms.Steam,
		candidates: []platforms.Candidate{cand(platforms.Steam, "Hades", `C:\Steam\Hades`)},
	}
	s := New(newConfig(nil), []platforms.Probe{p}, WithClock(clock))

	_, ok := s.LastResult()
	assert.False(t, ok)

	var got []games.Result
	s.OnComplete(func(r games.Result) { got = append(got, r) })

	res := s.ScanForGames(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, res.Session, got[0].Session)
	assert.Equal(t, clock.Now(), res.StartedAt)

	last, ok := s.LastResult()
	require.True(t, ok)
	assert.Equal(t, res.Session, last.Session)

	last.Data[0].Name = "changed"
	again, _ := s.LastResult()
	assert.Equal(t, "Hades", again.Data[0].Name)
}

func TestScan_Concurrency(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, coalesce bool) int32 {
		t.Helper()
		p := &stubProbe{
			id: "steam", platform: platforms.Steam,
			release: make(chan struct{}),
			started: make(chan struct{}),
			candidates: []platforms.Candidate{
				cand(platforms.Steam, "Hades", `C:\Steam\Hades`),
			},
		}
		cfg := newConfig(func(v *config.Values) { v.Scanner.Coalesce = coalesce })
		s := New(cfg, []platforms.Probe{p})

		var wg sync.WaitGroup
		results := make([]games.Result, 2)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[0] = s.ScanForGames(context.Background())
		}()
		<-p.started
		assert.Equal(t, Scanning, s.State())

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[1] = s.ScanForGames(context.Background())
		}()
		time.Sleep(50 * time.Millisecond)
		close(p.release)
		wg.Wait()

		for _, r := range results {
			assert.Equal(t, []string{"Hades"}, names(r.Data))
		}
		if coalesce {
			assert.Equal(t, results[0].Session, results[1].Session)
		} else {
			assert.NotEqual(t, results[0].Session, results[1].Session)
		}
		assert.Equal(t, Completed, s.State())
		return p.calls.Load()
	}

	t.Run("independent_by_default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int32(2), run(t, false))
	})

	t.Run("coalesced", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, int32(1), run(t, true))
	})
}

func TestScan_CoalescedScanSurvivesCallerCancel(t *testing.T) {
	t.Parallel()

	p := &stubProbe{
		id: "steam", platform: platforms.Steam,
		release:    make(chan struct{}),
		started:    make(chan struct{}),
		candidates: []platforms.Candidate{cand(platforms.Steam, "Hades", `C:\Steam\Hades`)},
	}
	cfg := newConfig(func(v *config.Values) { v.Scanner.Coalesce = true })
	s := New(cfg, []platforms.Probe{p})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan games.Result, 1)
	go func() { first <- s.ScanForGames(ctx) }()
	<-p.started

	cancel()
	canceled := <-first
	assert.Empty(t, canceled.Data)
	require.Len(t, canceled.Errors, 1)
	assert.Contains(t, canceled.Errors[0], "scan canceled")

	second := make(chan games.Result, 1)
	go func() { second <- s.ScanForGames(context.Background()) }()
	time.Sleep(50 * time.Millisecond)
	close(p.release)

	res := <-second
	assert.Equal(t, []string{"Hades"}, names(res.Data))
	assert.Empty(t, res.Errors)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestScan_ContainerFolderKeepsSeparateGames(t *testing.T) {
	t.Parallel()

	common := "/home/deck/.local/share/Steam/steamapps/common"
	steam := &stubProbe{
		id: "steam", platform: platforms.Steam,
		candidates: []platforms.Candidate{
			cand(platforms.Steam, "Counter-Strike 2", common+"/Counter-Strike Global Offensive"),
			cand(platforms.Steam, "Dota 2", common+"/dota 2 beta"),
		},
	}
	shortcut := platforms.Candidate{
		Platform:    platforms.Other,
		Source:      platforms.SourceHeuristic,
		Key:         "steam-shortcut-1",
		Name:        "Launch Script",
		InstallPath: "/home/deck",
	}
	shortcuts := &stubProbe{id: "steam-shortcuts", platform: platforms.Other, candidates: []platforms.Candidate{shortcut}}

	res := New(newConfig(nil), []platforms.Probe{steam, shortcuts}).ScanForGames(context.Background())
	assert.Equal(t, []string{"Counter-Strike 2", "Dota 2", "Launch Script"}, names(res.Data))
}

func TestScan_ConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	probes := make([]platforms.Probe, 0, 4)
	for i := range 4 {
		probes = append(probes, &countingProbe{id: fmt.Sprintf("p%d", i), inFlight: &inFlight, peak: &peak})
	}

	cfg := newConfig(func(v *config.Values) { v.Scanner.MaxConcurrentProbes = 1 })
	res := New(cfg, probes).ScanForGames(context.Background())
	assert.Empty(t, res.Errors)
	assert.Equal(t, int32(1), peak.Load())
}

type countingProbe struct {
	inFlight *atomic.Int32
	peak     *atomic.Int32
	id       string
}

func (p *countingProbe) ID() string           { return p.id }
func (*countingProbe) Platform() platforms.ID { return platforms.Other }
func (*countingProbe) Supported() bool        { return true }

func (p *countingProbe) Scan(context.Context) ([]platforms.Candidate, error) {
	n := p.inFlight.Add(1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	p.inFlight.Add(-1)
	return nil, nil
}

func TestNewForMode(t *testing.T) {
	t.Parallel()

	t.Run("mock", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(func(v *config.Values) { v.Scanner.Mode = config.ScannerModeMock })
		env, _ := hostenv.NewMemEnv("windows", nil)
		s, err := NewForMode(cfg, env)
		require.NoError(t, err)

		res := s.ScanForGames(context.Background())
		assert.Empty(t, res.Errors)
		require.NotEmpty(t, res.Data)
		assert.Equal(t, platforms.Steam, res.Data[0].Platform)
		assert.Equal(t, "steam-730", res.Data[0].ID)
		assert.Equal(t, "cs2.exe", res.Data[0].ProcessName)
	})

	t.Run("native_on_empty_host", func(t *testing.T) {
		t.Parallel()
		env, _ := hostenv.NewMemEnv("windows", map[string]string{"ProgramFiles": "/pf"})
		s, err := NewForMode(newConfig(nil), env)
		require.NoError(t, err)
		assert.Len(t, s.Probes(), 8)

		res := s.ScanForGames(context.Background())
		assert.Empty(t, res.Data)
		assert.Empty(t, res.Errors)
	})

	t.Run("unknown_mode", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(func(v *config.Values) { v.Scanner.Mode = "browser" })
		_, err := NewForMode(cfg, hostenv.Native())
		require.Error(t, err)
	})
}

func TestNativeProbes_UniqueIDs(t *testing.T) {
	t.Parallel()

	env, _ := hostenv.NewMemEnv("linux", nil)
	cfg := newConfig(nil)
	s, err := NewForMode(cfg, env)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, p := range s.Probes() {
		assert.False(t, seen[p.ID()], p.ID())
		seen[p.ID()] = true
		assert.True(t, p.Platform().Valid())
	}
	assert.Equal(t, "steam", s.Probes()[0].ID())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	text, err := CompletedWithErrors.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "completedWithErrors", string(text))
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, errors.Is(fmt.Errorf("%w after 1s", ErrProbeTimeout), ErrProbeTimeout))
}
