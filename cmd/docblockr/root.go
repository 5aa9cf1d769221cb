// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docblockr/services/docblock"
	"github.com/AleutianAI/docblockr/services/docblock/config"
)

// globalOptions hold the persistent flags shared by every command.
type globalOptions struct {
	configDir  string
	projectDir string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "docblockr",
		Short:         "Generate Python docstring templates",
		Long:          "docblockr inspects Python source around a docstring position and renders a\ndocstring template with the signature's arguments, returns and raises filled in.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "Directory holding docblockr.yaml (default: user config dir)")
	cmd.PersistentFlags().StringVar(&opts.projectDir, "project-dir", "", "Directory holding .docblockr.yaml (default: working directory)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from settings)")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newOutlineCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loader builds the settings loader for the configured directories.
func (o *globalOptions) loader() *config.Loader {
	userDir := o.configDir
	if userDir == "" {
		userDir = config.DefaultUserDir()
	}
	projectDir := o.projectDir
	if projectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			projectDir = wd
		}
	}
	return config.NewLoader(userDir, projectDir)
}

// loadSettings loads the layered settings and applies the --log-level
// override.
func (o *globalOptions) loadSettings(ctx context.Context) (*config.Settings, error) {
	settings, err := o.loader().Load(ctx)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		settings.Log.Level = o.logLevel
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

// newService loads settings, installs the default logger and creates the
// docblock service.
func (o *globalOptions) newService(ctx context.Context, logOut io.Writer) (*docblock.Service, error) {
	settings, err := o.loadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: settings.Log.SlogLevel(),
	})))
	return docblock.NewService(docblock.ServiceConfig{Settings: settings})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docblockr version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docblockr %s\n", docblock.Version)
		},
	}
}
