// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads layered docblockr settings.
package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Defaults
// =============================================================================

//go:embed defaults.yaml
var defaultSettingsYAML []byte

// MaxYAMLFileSize bounds every settings file read from disk.
const MaxYAMLFileSize = 1 << 20

const (
	// UserFileName is the settings file in the user config directory.
	UserFileName = "docblockr.yaml"

	// ProjectFileName is the settings file in a project root.
	ProjectFileName = ".docblockr.yaml"
)

var tracer = otel.Tracer("docblockr.config")

// =============================================================================
// Settings Types
// =============================================================================

// Settings is the merged docblockr configuration.
//
// Thread Safety: Treat as immutable once returned by Load; reloads produce
// a new value.
type Settings struct {
	// Formatter names the docstring style. Unknown names render with the
	// base style.
	Formatter string `yaml:"formatter" json:"formatter" validate:"required"`

	// TabWidth is the columns per indentation level.
	TabWidth int `yaml:"tab_width" json:"tab_width" validate:"min=1,max=16"`

	// Server holds HTTP service settings.
	Server ServerSettings `yaml:"server" json:"server"`

	// Log holds logging settings.
	Log LogSettings `yaml:"log" json:"log"`
}

// ServerSettings configures the HTTP service.
type ServerSettings struct {
	Addr             string  `yaml:"addr" json:"addr" validate:"required"`
	RateLimit        float64 `yaml:"rate_limit" json:"rate_limit" validate:"gte=0"`
	Burst            int     `yaml:"burst" json:"burst" validate:"min=1"`
	MaxContentBytes  int     `yaml:"max_content_bytes" json:"max_content_bytes" validate:"min=1"`
	BatchConcurrency int     `yaml:"batch_concurrency" json:"batch_concurrency" validate:"min=1,max=64"`
}

// LogSettings configures slog.
type LogSettings struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
}

// SlogLevel converts Level to a slog.Level. Unrecognized values map to info.
func (l LogSettings) SlogLevel() slog.Level {
	return ParseLevel(l.Level)
}

// ParseLevel converts a level name to a slog.Level. Unrecognized values map
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// Validation
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(yamlTagName)
	return v
}

func yamlTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Validate checks field constraints.
//
// Outputs:
//   - error: A validator.ValidationErrors wrapped with context, or nil.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// =============================================================================
// Loader
// =============================================================================

// Loader resolves settings from the embedded defaults and up to three
// override files.
//
// Description:
//
//	Layers are applied lowest to highest: embedded defaults, the user file,
//	the platform file for GOOS, then the project file. A later layer only
//	replaces the keys it sets. Missing files and empty directories are
//	skipped.
//
// Thread Safety: Safe for concurrent use; Load reads files on every call.
type Loader struct {
	// UserDir holds docblockr.yaml and docblockr.<goos>.yaml. Empty skips both.
	UserDir string

	// ProjectDir holds .docblockr.yaml. Empty skips it.
	ProjectDir string

	// GOOS selects the platform file. Empty uses runtime.GOOS.
	GOOS string
}

// NewLoader creates a Loader for the current platform.
func NewLoader(userDir, projectDir string) *Loader {
	return &Loader{
		UserDir:    userDir,
		ProjectDir: projectDir,
		GOOS:       runtime.GOOS,
	}
}

// DefaultUserDir returns <os user config dir>/docblockr, or "" when the
// platform has no such directory.
func DefaultUserDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "docblockr")
}

// Paths returns the override files in increasing precedence.
func (l *Loader) Paths() []string {
	goos := l.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var paths []string
	if l.UserDir != "" {
		paths = append(paths,
			filepath.Join(l.UserDir, UserFileName),
			filepath.Join(l.UserDir, "docblockr."+goos+".yaml"),
		)
	}
	if l.ProjectDir != "" {
		paths = append(paths, filepath.Join(l.ProjectDir, ProjectFileName))
	}
	return paths
}

// Load merges and validates every layer.
//
// Inputs:
//   - ctx: Context for tracing and cancellation. Must not be nil.
//
// Outputs:
//   - *Settings: The merged settings. Never nil on success.
//   - error: Non-nil if a file is unreadable, malformed, too large, or the
//     merged result fails validation.
func (l *Loader) Load(ctx context.Context) (*Settings, error) {
	if ctx == nil {
		return nil, fmt.Errorf("Load: ctx must not be nil")
	}
	_, span := tracer.Start(ctx, "config.Load")
	defer span.End()

	var s Settings
	if err := yaml.Unmarshal(defaultSettingsYAML, &s); err != nil {
		return nil, fmt.Errorf("Load: parsing embedded defaults: %w", err)
	}

	applied := make([]string, 0, 3)
	for _, path := range l.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := mergeFile(path, &s)
		if err != nil {
			return nil, fmt.Errorf("Load: %w", err)
		}
		if ok {
			applied = append(applied, path)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	span.SetAttributes(
		attribute.String("formatter", s.Formatter),
		attribute.Int("tab_width", s.TabWidth),
		attribute.StringSlice("layers", applied),
	)

	slog.Debug("settings loaded",
		slog.String("formatter", s.Formatter),
		slog.Int("tab_width", s.TabWidth),
		slog.Any("layers", applied),
	)

	return &s, nil
}

// mergeFile decodes path over s. Reports false when the file does not exist.
func mergeFile(path string, s *Settings) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxYAMLFileSize {
		return false, fmt.Errorf("%s exceeds maximum size (%d > %d)", path, info.Size(), MaxYAMLFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return true, nil
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}

// =============================================================================
// Cached Defaults
// =============================================================================

var (
	defaultsOnce    sync.Once
	cachedDefaults  *Settings
	defaultsLoadErr error
)

// Defaults returns the embedded defaults without any override layer.
//
// Thread Safety: Safe for concurrent use via sync.Once. Callers must not
// modify the returned value.
func Defaults() (*Settings, error) {
	defaultsOnce.Do(func() {
		cachedDefaults, defaultsLoadErr = (&Loader{}).Load(context.Background())
	})
	return cachedDefaults, defaultsLoadErr
}
