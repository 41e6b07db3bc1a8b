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
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	arraydb "github.com/AleutianAI/arrayviz/services/arrayviz/storage/badger"
)

// recordingPrefix namespaces recording keys.
const recordingPrefix = "recording/"

func recordingKey(id uuid.UUID) []byte {
	return []byte(recordingPrefix + id.String())
}

// BadgerStore persists recordings in BadgerDB as canonical CBOR.
//
// # Description
//
// Each recording lives under "recording/<id>". The store does not own the
// database; whoever opened it closes it.
//
// # Thread Safety
//
// Safe for concurrent use.
type BadgerStore struct {
	db *arraydb.DB
}

// NewBadgerStore wraps an open database.
func NewBadgerStore(db *arraydb.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Save implements Store.
func (s *BadgerStore) Save(ctx context.Context, rec *Recording) error {
	data, err := MarshalRecording(rec)
	if err != nil {
		return err
	}
	err = s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(recordingKey(rec.ID), data)
	})
	if err != nil {
		return fmt.Errorf("save recording %s: %w", rec.ID, err)
	}
	return nil
}

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, id uuid.UUID) (*Recording, error) {
	var rec *Recording
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(recordingKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var derr error
			rec, derr = UnmarshalRecording(val)
			return derr
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get recording %s: %w", id, err)
	}
	return rec, nil
}

// List implements Store.
func (s *BadgerStore) List(ctx context.Context) ([]Summary, error) {
	out := []Summary{}
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordingPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				rec, err := UnmarshalRecording(val)
				if err != nil {
					return err
				}
				out = append(out, rec.Summary())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}

	sortSummaries(out)
	return out, nil
}

// Delete implements Store.
func (s *BadgerStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		key := recordingKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete recording %s: %w", id, err)
	}
	return nil
}
