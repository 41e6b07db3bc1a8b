// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no recording exists under an ID.
var ErrNotFound = errors.New("recording not found")

// Store persists recordings.
//
// Implementations return deep copies from Get, so callers may modify what
// they receive. List is ordered oldest first, ties broken by ID.
type Store interface {
	// Save stores rec, replacing any recording with the same ID.
	Save(ctx context.Context, rec *Recording) error

	// Get returns the recording stored under id, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Recording, error)

	// List returns a summary of every stored recording.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the recording stored under id, or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// sortSummaries orders summaries oldest first, then by ID.
func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}

// MemoryStore keeps recordings in a map.
//
// Thread Safety: Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[uuid.UUID]*Recording
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[uuid.UUID]*Recording)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, rec *Recording) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save recording: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec.Clone()
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	s.mu.RLock()
	out := make([]Summary, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, rec.Summary())
	}
	s.mu.RUnlock()

	sortSummaries(out)
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.recs, id)
	return nil
}
