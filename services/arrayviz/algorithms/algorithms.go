// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package algorithms holds instrumented example algorithms.
//
// Each algorithm mutates its own working arrays and reports state through a
// frames.RecordFunc, exactly as any user-supplied algorithm would. Inputs
// arrive as YAML or JSON documents and are validated before the algorithm
// runs; an empty document selects the algorithm's built-in example input.
package algorithms

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/arrayviz/pkg/frames"
)

// Sentinel errors for algorithm lookup and input handling.
var (
	// ErrUnknownAlgorithm indicates no algorithm is registered under a name.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrInvalidInput indicates the input document failed to decode or validate.
	ErrInvalidInput = errors.New("invalid algorithm input")

	// ErrDuplicateAlgorithm indicates a name was registered twice.
	ErrDuplicateAlgorithm = errors.New("algorithm already registered")
)

// Algorithm is an instrumented algorithm over int arrays.
type Algorithm interface {
	// Name is the registry key, e.g. "merge".
	Name() string

	// Description is a one-line human summary.
	Description() string

	// Lanes is the number of lanes the algorithm records.
	Lanes() int

	// Run decodes and validates input, then executes while reporting every
	// state change through record. An empty input selects the example input.
	Run(input []byte, record frames.RecordFunc[int]) error
}

// Info describes a registered algorithm.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Lanes       int    `json:"lanes" yaml:"lanes"`
}

// Registry maps algorithm names to implementations.
//
// Thread Safety: Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	algos map[string]Algorithm
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{algos: make(map[string]Algorithm)}
}

// DefaultRegistry returns a registry holding every built-in algorithm.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, a := range []Algorithm{Merge{}, BubbleSort{}, PairSum{}} {
		// Built-in names are distinct.
		_ = r.Register(a)
	}
	return r
}

// Register adds an algorithm. Names must be unique.
func (r *Registry) Register(a Algorithm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.algos[a.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, a.Name())
	}
	r.algos[a.Name()] = a
	return nil
}

// Get returns the algorithm registered under name.
func (r *Registry) Get(name string) (Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.algos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// List returns every registered algorithm sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.algos))
	for _, a := range r.algos {
		out = append(out, Info{Name: a.Name(), Description: a.Description(), Lanes: a.Lanes()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// =============================================================================
// Input decoding and validation
// =============================================================================

// inputValidate is shared by every algorithm's input struct.
// Initialized in init() with the custom "sorted" tag.
var inputValidate *validator.Validate

func init() {
	inputValidate = validator.New()
	_ = inputValidate.RegisterValidation("sorted", validateSorted)
	inputValidate.RegisterStructValidation(validateMergeInput, MergeInput{})
}

// validateSorted checks that an []int field is in non-decreasing order.
func validateSorted(fl validator.FieldLevel) bool {
	values, ok := fl.Field().Interface().([]int)
	if !ok {
		return false
	}
	return slices.IsSorted(values)
}

// decodeInput fills target from a YAML or JSON document and validates it.
// Callers pass their example input as target when the document is empty and
// a zero value otherwise, so a document never inherits example fields.
func decodeInput(input []byte, target any) error {
	if len(input) > 0 {
		if err := yaml.Unmarshal(input, target); err != nil {
			return fmt.Errorf("%w: decode: %v", ErrInvalidInput, err)
		}
	}
	if err := inputValidate.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
