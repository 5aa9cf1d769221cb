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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/docblockr/services/docblock"
	"github.com/AleutianAI/docblockr/services/docblock/formatter"
)

type generateOptions struct {
	file     string
	line     int
	column   int
	offset   int
	style    string
	tabWidth int
	asJSON   bool
	plain    bool
}

func newGenerateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the docstring for one position",
		Long: `Generate prints what an editor would insert at a docstring position: a
newline when the docstring is already closed, otherwise a snippet whose
${n:[name]} fields mark the text still to write.

The position is either --offset, a byte offset, or --line (1-based) with
--column (0-based byte column), normally just after the opening quotes.`,
		Example: `  docblockr generate --file app.py --line 12 --column 7
  docblockr generate --file app.py --offset 311 --style google --plain
  cat app.py | docblockr generate --file - --line 3 --column 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "Python file to read, or - for stdin")
	f.IntVarP(&opts.line, "line", "l", 0, "1-based line of the docstring position")
	f.IntVarP(&opts.column, "column", "c", 0, "0-based byte column of the docstring position")
	f.IntVar(&opts.offset, "offset", -1, "Byte offset of the docstring position")
	f.StringVarP(&opts.style, "style", "s", "", "Formatter style (default: from settings)")
	f.IntVar(&opts.tabWidth, "tab-width", 0, "Columns per indentation level (default: from settings)")
	f.BoolVar(&opts.asJSON, "json", false, "Print the full response as JSON")
	f.BoolVar(&opts.plain, "plain", false, "Print the docstring with fields replaced by their labels")
	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsOneRequired("offset", "line")

	return cmd
}

func runGenerate(cmd *cobra.Command, global *globalOptions, opts *generateOptions) error {
	ctx := cmd.Context()

	svc, err := global.newService(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	content, err := readSource(opts.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	req := docblock.GenerateRequest{
		Content:   content,
		Line:      opts.line,
		Column:    opts.column,
		Formatter: opts.style,
		TabWidth:  opts.tabWidth,
	}
	if cmd.Flags().Changed("offset") {
		if opts.offset < 0 {
			return errors.New("--offset must not be negative")
		}
		req.Offset = &opts.offset
	}

	resp, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	if opts.asJSON {
		return out.JSON(resp)
	}

	if resp.Action == docblock.ActionNewline {
		out.Note("docstring already closed; insert a newline")
		return nil
	}

	text := resp.Text
	if opts.plain {
		text = string(resp.Delimiter) + formatter.Plain(text)
	}
	if !out.styled {
		out.Raw(text + "\n")
		return nil
	}

	title := resp.Definition.Kind.String()
	if resp.Definition.Name != "" {
		title = fmt.Sprintf("%s %s", title, resp.Definition.Name)
	}
	out.Heading(title, resp.Style)
	out.Block(text)
	return nil
}
