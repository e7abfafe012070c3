package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fricu/internal/store"
)

// ImportResult summarizes an activity import
type ImportResult struct {
	Read        int
	IDsAssigned int
	Stored      int
}

// ImportService loads activity files into the store
type ImportService struct {
	store *store.Store
}

// NewImportService creates an import service
func NewImportService(s *store.Store) *ImportService {
	return &ImportService{store: s}
}

// ImportActivities replaces the stored activity feed with the JSON array
// read from r. Activities without an ID get a fresh UUID.
func (s *ImportService) ImportActivities(ctx context.Context, r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading activities: %w", err)
	}
	if len(data) > MaxImportBytes {
		return nil, fmt.Errorf("activity file exceeds %d bytes", MaxImportBytes)
	}

	var activities []store.Activity
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	result := &ImportResult{Read: len(activities)}
	result.IDsAssigned = store.AssignIDs(activities)
	store.SortActivities(activities)

	if err := s.store.SaveActivities(ctx, activities); err != nil {
		return nil, fmt.Errorf("saving activities: %w", err)
	}
	result.Stored = len(activities)
	return result, nil
}
