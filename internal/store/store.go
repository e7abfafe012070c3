package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DataKeys is the fixed set of documents the app syncs
var DataKeys = []string{
	"activities",
	"activity_metric_insights",
	"meal_plans",
	"custom_foods",
	"workouts",
	"events",
	"profile",
	"lactate_history_records",
}

const (
	KeyActivities = "activities"
	KeyProfile    = "profile"
)

// errNoRow is returned by backends when a key has no stored row
var errNoRow = errors.New("no row")

// backend is the key/value persistence behind a Store
type backend interface {
	get(ctx context.Context, key string) (string, error)
	upsert(ctx context.Context, key, value string) error
	insertIfMissing(ctx context.Context, key, value string) error
	validJSON(ctx context.Context, payload string) (bool, error)
	close() error
}

// Store is the application's data access layer over the JSON documents.
// It is safe for concurrent use.
type Store struct {
	kv backend
}

func newStore(kv backend) *Store {
	return &Store{kv: kv}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.kv.close()
}

// IsValidKey reports whether key is one of DataKeys
func IsValidKey(key string) bool {
	for _, k := range DataKeys {
		if k == key {
			return true
		}
	}
	return false
}

// DefaultValue returns the document a key holds before the app first writes it
func DefaultValue(key string) string {
	if key == KeyProfile {
		return "{}"
	}
	return "[]"
}

// Get returns the stored document for key, or its default when no row exists.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if !IsValidKey(key) {
		return nil, ErrUnknownKey
	}
	value, err := s.kv.get(ctx, key)
	if errors.Is(err, errNoRow) {
		return json.RawMessage(DefaultValue(key)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Put replaces the document for key after checking it is valid JSON.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	if !IsValidKey(key) {
		return ErrUnknownKey
	}
	ok, err := s.kv.validJSON(ctx, string(payload))
	if err != nil {
		return fmt.Errorf("validating %s: %w", key, err)
	}
	if !ok {
		return ErrInvalidPayload
	}
	if err := s.kv.upsert(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// seed inserts default documents for keys that have never been written
func (s *Store) seed(ctx context.Context) error {
	for _, key := range DataKeys {
		if err := s.kv.insertIfMissing(ctx, key, DefaultValue(key)); err != nil {
			return fmt.Errorf("seeding %s: %w", key, err)
		}
	}
	return nil
}
