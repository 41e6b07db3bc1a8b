// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects how Encode writes steps.
type Format string

const (
	// FormatText is a plain table for terminals.
	FormatText Format = "text"

	// FormatJSON is an indented JSON array of steps.
	FormatJSON Format = "json"

	// FormatYAML is a YAML sequence of steps.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Encode writes steps to w in the given format.
//
// Inputs:
//
//	w - Destination.
//	steps - Steps in replay order, usually from Steps.
//	format - FormatText, FormatJSON or FormatYAML.
//
// Outputs:
//
//	error - ErrUnknownFormat, or the first write or encode error.
func Encode[V comparable](w io.Writer, steps []Step[V], format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(steps); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(steps); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil

	case FormatText:
		return encodeText(w, steps)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// encodeText writes one block per step:
//
//	step 1/3
//	  lane  values     changed  pointers
//	  0     [1 2 3]    [2]      i=2
//	  1*    [4]        []       -
//
// A star after the lane number marks a resized lane.
func encodeText[V comparable](w io.Writer, steps []Step[V]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, step := range steps {
		fmt.Fprintf(tw, "step %d/%d\n", step.Index+1, len(steps))
		fmt.Fprintln(tw, "  lane\tvalues\tchanged\tpointers\t")
		for lane, values := range step.Arrays {
			marker := ""
			if lane < len(step.Resized) && step.Resized[lane] {
				marker = "*"
			}
			var changed []int
			if lane < len(step.Changed) {
				changed = step.Changed[lane]
			}
			var pointers map[string]int
			if lane < len(step.Pointers) {
				pointers = step.Pointers[lane]
			}
			fmt.Fprintf(tw, "  %d%s\t%v\t%v\t%s\t\n", lane, marker, values, changed, formatPointers(pointers))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("encode text: %w", err)
	}
	return nil
}

// formatPointers renders a pointer map as "a=1 b=2" in name order.
func formatPointers(pointers map[string]int) string {
	if len(pointers) == 0 {
		return "-"
	}
	names := make([]string, 0, len(pointers))
	for name := range pointers {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, pointers[name])
	}
	return strings.Join(parts, " ")
}
