// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_DefaultsOnly(t *testing.T) {
	s, err := NewLoader("", "").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "docblock", s.Formatter)
	assert.Equal(t, 4, s.TabWidth)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 8, s.Server.BatchConcurrency)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoad_LayerPrecedence(t *testing.T) {
	userDir := t.TempDir()
	projectDir := t.TempDir()

	writeFile(t, filepath.Join(userDir, UserFileName), "formatter: google\ntab_width: 2\nlog:\n  level: debug\n")
	writeFile(t, filepath.Join(userDir, "docblockr.plan9.yaml"), "formatter: numpy\n")
	writeFile(t, filepath.Join(projectDir, ProjectFileName), "formatter: sphinx\nserver:\n  burst: 7\n")

	loader := &Loader{UserDir: userDir, ProjectDir: projectDir, GOOS: "plan9"}
	s, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sphinx", s.Formatter, "project wins")
	assert.Equal(t, 2, s.TabWidth, "user layer kept where not overridden")
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, 7, s.Server.Burst)
	assert.Equal(t, ":8080", s.Server.Addr, "nested keys not set keep the default")
}

func TestLoad_PlatformOverridesUser(t *testing.T) {
	userDir := t.TempDir()
	writeFile(t, filepath.Join(userDir, UserFileName), "formatter: google\n")
	writeFile(t, filepath.Join(userDir, "docblockr.plan9.yaml"), "formatter: numpy\n")

	s, err := (&Loader{UserDir: userDir, GOOS: "plan9"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "numpy", s.Formatter)

	s, err = (&Loader{UserDir: userDir, GOOS: "windows"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "google", s.Formatter)
}

func TestLoad_EmptyFileIsNoop(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, ProjectFileName), "\n")

	s, err := NewLoader("", projectDir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "docblock", s.Formatter)
}

func TestLoad_MalformedFile(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, ProjectFileName), "formatter: [unclosed\n")

	_, err := NewLoader("", projectDir).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ProjectFileName)
}

func TestLoad_ValidationFailure(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, ProjectFileName), "tab_width: 0\nlog:\n  level: loud\n")

	_, err := NewLoader("", projectDir).Load(context.Background())
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"tab_width", "level"}, fields)
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(t.TempDir(), "").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel("WARNING").String())
	assert.Equal(t, "ERROR", LogSettings{Level: "error"}.SlogLevel().String())
	assert.Equal(t, "INFO", ParseLevel("chatty").String())
}

func TestDefaults_Cached(t *testing.T) {
	a, err := Defaults()
	require.NoError(t, err)
	b, err := Defaults()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestWatch_ReloadsOnProjectFileChange(t *testing.T) {
	projectDir := t.TempDir()
	path := filepath.Join(projectDir, ProjectFileName)
	writeFile(t, path, "formatter: google\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Settings, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, NewLoader("", projectDir), func(s *Settings) { changes <- s })
	}()

	// Keep rewriting until the watcher, which starts asynchronously, sees it.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case s := <-changes:
			assert.Equal(t, "numpy", s.Formatter)
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			writeFile(t, path, "formatter: numpy\n")
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatch_InvalidChangeKeepsPrevious(t *testing.T) {
	projectDir := t.TempDir()
	path := filepath.Join(projectDir, ProjectFileName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Settings, 8)
	go func() {
		_ = Watch(ctx, NewLoader("", projectDir), func(s *Settings) { changes <- s })
	}()

	for i := 0; i < 10; i++ {
		writeFile(t, path, "tab_width: -1\n")
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case s := <-changes:
		t.Fatalf("unexpected reload with formatter %q", s.Formatter)
	case <-time.After(200 * time.Millisecond):
	}
}
