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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docblockr/services/docblock"
)

type outlineOptions struct {
	file     string
	style    string
	tabWidth int
	asJSON   bool
	apply    bool
	write    bool
}

func newOutlineCmd(global *globalOptions) *cobra.Command {
	opts := &outlineOptions{}

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Propose docstrings for every undocumented class and function",
		Long: `Outline parses a Python file and proposes a docstring for every class and
function whose body does not start with one, nested definitions included.

With --apply the file content is printed with every docstring inserted.
With --write the file is rewritten in place.`,
		Example: `  docblockr outline --file app.py
  docblockr outline --file app.py --style numpy --apply
  docblockr outline --file app.py --write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOutline(cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Python file to read, or - for stdin")
	f.StringVarP(&opts.style, "style", "s", "", "Formatter style (default: from settings)")
	f.IntVar(&opts.tabWidth, "tab-width", 0, "Columns per indentation level (default: from settings)")
	f.BoolVar(&opts.asJSON, "json", false, "Print the full response as JSON")
	f.BoolVar(&opts.apply, "apply", false, "Print the content with the docstrings inserted")
	f.BoolVarP(&opts.write, "write", "w", false, "Insert the docstrings into the file in place")
	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("json", "write")

	return cmd
}

func runOutline(cmd *cobra.Command, global *globalOptions, opts *outlineOptions) error {
	ctx := cmd.Context()

	if opts.write && opts.file == "-" {
		return fmt.Errorf("--write needs a file, not stdin")
	}

	svc, err := global.newService(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	content, err := readSource(opts.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	resp, err := svc.Outline(ctx, docblock.OutlineRequest{
		Content:   content,
		Formatter: opts.style,
		TabWidth:  opts.tabWidth,
		Apply:     opts.apply || opts.write,
	})
	if err != nil {
		return err
	}
	if resp.SyntaxErrors {
		slog.Warn("Source has syntax errors; results may be incomplete", slog.String("file", opts.file))
	}

	out := newPrinter(cmd.OutOrStdout())
	switch {
	case opts.asJSON:
		return out.JSON(resp)
	case opts.write:
		return writeInPlace(opts.file, resp, out)
	case opts.apply:
		out.Raw(resp.Content)
		return nil
	}

	if len(resp.Items) == 0 {
		out.Note("nothing to document")
		return nil
	}
	for _, item := range resp.Items {
		out.Heading(fmt.Sprintf("%s %s", item.Target.Kind, item.Target.Name), fmt.Sprintf("line %d", item.Target.Line))
		out.Block(item.Docstring)
	}
	return nil
}

func writeInPlace(path string, resp *docblock.OutlineResponse, out *printer) error {
	if len(resp.Items) == 0 {
		out.Note("nothing to document")
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(resp.Content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	out.Note(fmt.Sprintf("documented %d definitions in %s", len(resp.Items), path))
	return nil
}
