// Package vdfbinary parses Valve's binary VDF format.
//
// This is a vendored and modified version of github.com/TimDeve/valve-vdf-binary
// Licensed under MIT. See LICENSE file in this directory.
package vdfbinary

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrBadShortcut marks an entry that is missing a required field. Other
// entries of the same file are still returned.
var ErrBadShortcut = errors.New("invalid shortcut entry")

// Shortcut represents a Steam non-Steam game shortcut.
// Fields are ordered for optimal memory alignment.
type Shortcut struct {
	AppName       string
	Exe           string
	Icon          string
	StartDir      string
	LaunchOptions string
	Tags          []string
	AppID         uint32
	LastPlayTime  uint32
	IsHidden      bool
}

// ParseShortcuts parses Steam's shortcuts.vdf binary format. Tags, icon,
// launch options, last play time and IsHidden are optional so shortcuts
// written by third-party tools parse. A structurally broken file is an
// error with no shortcuts; entries lacking a required field are skipped and
// reported as ErrBadShortcut alongside the valid ones.
func ParseShortcuts(buf io.Reader) ([]Shortcut, error) {
	vdf, err := Parse(buf)
	if err != nil {
		return []Shortcut{}, err
	}

	shortcutsMap, ok := vdf.GetMap("shortcuts")
	if !ok {
		return []Shortcut{}, errors.New("could not find 'shortcuts' in parsed vdf")
	}

	shortcuts := make([]Shortcut, 0, len(shortcutsMap))
	var errs []error

	for i := range len(shortcutsMap) {
		key := strconv.Itoa(i)

		s, ok := shortcutsMap[key]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: shortcuts array does not have index %d", ErrBadShortcut, i))
			continue
		}

		sc, err := parseShortcut(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: index %d: %w", ErrBadShortcut, i, err))
			continue
		}
		shortcuts = append(shortcuts, sc)
	}

	return shortcuts, errors.Join(errs...)
}

func parseShortcut(s VdfValue) (Shortcut, error) {
	appID, ok := s.GetUint("appid")
	if !ok {
		return Shortcut{}, errors.New("could not get key 'appid'")
	}

	appName, ok := s.GetString("AppName")
	if !ok {
		return Shortcut{}, errors.New("could not get key 'AppName'")
	}

	exe, ok := s.GetString("Exe")
	if !ok {
		return Shortcut{}, errors.New("could not get key 'Exe'")
	}

	startDir, ok := s.GetString("StartDir")
	if !ok {
		return Shortcut{}, errors.New("could not get key 'StartDir'")
	}

	icon, _ := s.GetString("icon")
	launchOptions, _ := s.GetString("LaunchOptions")
	lastPlayTime, _ := s.GetUint("LastPlayTime")
	isHidden, _ := s.GetBool("IsHidden")

	var tags []string
	if tagsMap, ok := s.GetMap("tags"); ok {
		for j := range len(tagsMap) {
			t, ok := tagsMap[strconv.Itoa(j)]
			if !ok {
				break
			}
			if ts, ok := t.AsString(); ok {
				tags = append(tags, ts)
			}
		}
	}

	return Shortcut{
		AppID:         appID,
		AppName:       appName,
		Exe:           exe,
		Icon:          icon,
		IsHidden:      isHidden,
		LastPlayTime:  lastPlayTime,
		LaunchOptions: launchOptions,
		StartDir:      startDir,
		Tags:          tags,
	}, nil
}
