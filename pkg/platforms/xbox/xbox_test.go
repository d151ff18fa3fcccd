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

package xbox

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/GamePathAI/gamepath-core/pkg/config"
	"github.com/GamePathAI/gamepath-core/pkg/games/normalize"
	"github.com/GamePathAI/gamepath-core/pkg/hostenv"
	"github.com/GamePathAI/gamepath-core/pkg/platforms"
	"github.com/GamePathAI/gamepath-core/pkg/platforms/shared/keywords"
	testhelpers "github.com/GamePathAI/gamepath-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	windowsApps = "/pf/WindowsApps"
	minecraft   = "Microsoft.MinecraftUWP_1.19.0.0_x64__8wekyb3d8bbwe"
)

type fixture struct {
	probe *Probe
	fsh   *testhelpers.FSHelper
	reg   *hostenv.MemRegistry
}

func newFixture(t *testing.T, goos string) *fixture {
	t.Helper()
	env, reg := hostenv.NewMemEnv(goos, map[string]string{"ProgramFiles": "/pf"})
	deps := platforms.NewDeps(env, config.NewInMemory(config.BaseDefaults), keywords.Default(), -1)
	return &fixture{probe: New(deps), fsh: &testhelpers.FSHelper{Fs: env.Fs}, reg: reg}
}

func (f *fixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, f.fsh.WriteFile(path, []byte(content), 0o644))
}

func TestScan_WindowsApps(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "windows")
	f.write(t, filepath.Join(windowsApps, minecraft, "AppxManifest.xml"), `<?xml version="1.0" encoding="utf-8"?>
<Package xmlns="http://schemas.microsoft.com/appx/manifest/foundation/windows10">
  <Identity Name="Microsoft.MinecraftUWP" Publisher="CN=Microsoft" Version="1.19.0.0" />
  <Properties>
    <DisplayName>ms-resource:AppName</DisplayName>
  </Properties>
  <Applications>
    <Application Id="App" Executable="Minecraft.Windows.exe" />
  </Applications>
</Package>`)
	f.write(t, filepath.Join(windowsApps, minecraft, "Minecraft.Windows.exe"), "")
	f.write(t, filepath.Join(windowsApps, "Microsoft.MinecraftUWP_1.20.0.0_x64__8wekyb3d8bbwe", "x.exe"), "")
	f.write(t, filepath.Join(windowsApps, "Microsoft.WindowsCalculator_11.0.0.0_x64__8wekyb3d8bbwe", "Calc.exe"), "")
	f.write(t, filepath.Join(windowsApps, "SomePublisher.NotesApp_1.0.0.0_x64__abc123", "Notes.exe"), "")
	f.write(t, filepath.Join(windowsApps, "Contoso.IndieGame_1.0.0.0_x64__xyz789", "MicrosoftGame.Config"), `<Game configVersion="1">
  <Identity Name="Contoso.IndieGame" Publisher="CN=Contoso" Version="1.0.0.0"/>
  <ExecutableList>
    <Executable Name="bin/IndieGame.exe" Id="Game"/>
  </ExecutableList>
  <ShellVisuals DefaultDisplayName="Indie Game™" PublisherDisplayName="Contoso"/>
</Game>`)
	f.write(t, filepath.Join(windowsApps, "Contoso.IndieGame_1.0.0.0_x64__xyz789", "bin", "IndieGame.exe"), "")

	got, err := f.probe.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	indie := got[0]
	assert.Equal(t, "Contoso.IndieGame_xyz789", indie.Key)
	assert.Equal(t, "Indie Game™", indie.Name)
	assert.Equal(t, platforms.SourcePackage, indie.Source)
	assert.Equal(t, filepath.Join(windowsApps, "Contoso.IndieGame_1.0.0.0_x64__xyz789", "bin", "IndieGame.exe"),
		indie.ExecutablePath)

	mc := got[1]
	assert.Equal(t, "Microsoft.MinecraftUWP_8wekyb3d8bbwe", mc.Key)
	assert.Equal(t, filepath.Join(windowsApps, minecraft, "Minecraft.Windows.exe"), mc.ExecutablePath)

	rec, err := normalize.Normalize(mc)
	require.NoError(t, err)
	assert.Equal(t, "Minecraft", rec.Name)
	assert.Equal(t, "xbox-microsoft.minecraftuwp_8wekyb3d8bbwe", rec.ID)

	rec, err = normalize.Normalize(indie)
	require.NoError(t, err)
	assert.Equal(t, "Indie Game", rec.Name)
}

func TestScan_XboxGamesLibrary(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "windows")
	lib := filepath.Join(`E:\`, "XboxGames")
	f.write(t, filepath.Join(lib, "Forza Horizon 5", "Content", "MicrosoftGame.Config"), `<Game>
  <Identity Name="Microsoft.624F8B84B80"/>
  <ExecutableList><Executable Name="ForzaHorizon5.exe"/></ExecutableList>
  <ShellVisuals DefaultDisplayName="Forza Horizon 5"/>
</Game>`)
	f.write(t, filepath.Join(lib, "Forza Horizon 5", "Content", "ForzaHorizon5.exe"), "")
	require.NoError(t, f.fsh.Fs.MkdirAll(filepath.Join(lib, "Halo Infinite", "Content"), 0o755))
	f.write(t, filepath.Join(lib, "GameSave", "readme.txt"), "")

	got, err := f.probe.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Forza Horizon 5", got[0].Name)
	assert.Equal(t, "Microsoft.624F8B84B80", got[0].Key)
	assert.Equal(t, filepath.Join(lib, "Forza Horizon 5", "Content", "ForzaHorizon5.exe"), got[0].ExecutablePath)

	assert.Equal(t, "GameSave", got[1].Name)

	assert.Equal(t, "Halo Infinite", got[2].Name)
	assert.Empty(t, got[2].ExecutablePath, "games are kept without an executable")

	assert.Equal(t, []string{lib}, f.probe.WatchPaths())
}

func TestScan_MalformedConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "windows")
	lib := filepath.Join(`D:\`, "XboxGames")
	f.write(t, filepath.Join(lib, "Broken", "MicrosoftGame.Config"), `<Game><Identity`)

	got, err := f.probe.Scan(context.Background())
	require.ErrorIs(t, err, platforms.ErrMalformed)
	require.Len(t, got, 1)
	assert.Equal(t, "Broken", got[0].Name)
}

func TestFamilyName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A.B_pub", familyName("A.B_1.0.0.0_x64__pub"))
	assert.Empty(t, familyName("Forza Horizon 5"))
	assert.Empty(t, familyName("a_b_c"))
}

func TestUsableName(t *testing.T) {
	t.Parallel()

	assert.Empty(t, usableName("ms-resource:AppName"))
	assert.Empty(t, usableName("MS-RESOURCE:x"))
	assert.Equal(t, "Halo", usableName(" Halo "))
}

func TestScan_UnsupportedOSTouchesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "darwin")
	spy := testhelpers.NewSpyFs(f.fsh.Fs)
	f.probe.deps.Env.Fs = spy

	got, err := f.probe.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, f.probe.WatchPaths())
	assert.Zero(t, spy.Calls())
	assert.Zero(t, f.reg.Calls())
}
