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
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/arrayviz/services/arrayviz/replay"
	"github.com/AleutianAI/arrayviz/services/arrayviz/session"
)

func newAlgorithmsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the instrumented algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLANES\tDESCRIPTION")
			for _, info := range a.runner.Algorithms() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Lanes, info.Description)
			}
			return tw.Flush()
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		inputPath string
		format    string
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Run an algorithm and print its replay",
		Long: `Run an instrumented algorithm, store the recording, and print every step.

Without --input the algorithm's example input is used. The input file is
YAML or JSON; "-" reads it from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			input, err := readInput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}

			rec, err := a.runner.Run(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}

			if !noSave {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				if err := store.Save(cmd.Context(), rec); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "recording %s saved (%d frames)\n", rec.ID, len(rec.Frames))
			}
			return replay.Encode(cmd.OutOrStdout(), replay.Steps(rec.Frames), out)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input document (YAML or JSON, - for stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, yaml (default from config)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the recording")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tALGORITHM\tFRAMES\tLANES\tCREATED")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					s.ID, s.Algorithm, s.FrameCount, s.LaneCount, s.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print every step of a stored recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.outputFormat(format)
			if err != nil {
				return err
			}
			rec, err := a.loadRecording(cmd, args[0])
			if err != nil {
				return err
			}
			return replay.Encode(cmd.OutOrStdout(), replay.Steps(rec.Frames), out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, yaml (default from config)")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <id> <index>",
		Short: "Show which slots changed at one step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index must be an integer: %q", args[1])
			}
			rec, err := a.loadRecording(cmd, args[0])
			if err != nil {
				return err
			}
			step, err := replay.NewStep(rec.Frames, index)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "step %d of %d\n", step.Index, len(rec.Frames))
			for lane, changed := range step.Changed {
				resized := ""
				if step.Resized[lane] {
					resized = " (resized)"
				}
				fmt.Fprintf(w, "lane %d: %v%s\n", lane, changed, resized)
			}
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid recording id %q: %w", args[0], err)
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

// outputFormat resolves a --format flag, falling back to the config default.
func (a *app) outputFormat(flag string) (replay.Format, error) {
	if flag == "" {
		flag = a.cfg.Render.Format
	}
	return replay.ParseFormat(flag)
}

func (a *app) loadRecording(cmd *cobra.Command, raw string) (*session.Recording, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid recording id %q: %w", raw, err)
	}
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return store.Get(cmd.Context(), id)
}

// readInput returns the input document at path, stdin for "-", or nil.
func readInput(stdin io.Reader, path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read input from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
}
