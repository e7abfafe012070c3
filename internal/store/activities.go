package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Activities decodes the activity feed stored under the "activities" key.
// Records that do not decode are skipped so one bad entry cannot block
// analysis of the rest.
func (s *Store) Activities(ctx context.Context) ([]Activity, error) {
	raw, err := s.Get(ctx, KeyActivities)
	if err != nil {
		return nil, err
	}
	activities, skipped, err := DecodeActivities(raw)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Int("decoded", len(activities)).Msg("ignoring undecodable activity records")
	}
	return activities, nil
}

// DecodeActivities decodes a JSON array of activities, returning how many
// elements were skipped because they did not decode
func DecodeActivities(raw []byte) ([]Activity, int, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, 0, fmt.Errorf("%w: activities must be an array: %v", ErrMalformedDocument, err)
	}

	activities := make([]Activity, 0, len(records))
	skipped := 0
	for _, rec := range records {
		var a Activity
		if err := json.Unmarshal(rec, &a); err != nil {
			skipped++
			continue
		}
		activities = append(activities, a)
	}
	return activities, skipped, nil
}

// SaveActivities replaces the activity feed
func (s *Store) SaveActivities(ctx context.Context, activities []Activity) error {
	if activities == nil {
		activities = []Activity{}
	}
	data, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("encoding activities: %w", err)
	}
	return s.Put(ctx, KeyActivities, data)
}

// Profile decodes the athlete profile stored under the "profile" key
func (s *Store) Profile(ctx context.Context) (Profile, error) {
	raw, err := s.Get(ctx, KeyProfile)
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: profile: %v", ErrMalformedDocument, err)
	}
	return p, nil
}

// SaveProfile replaces the athlete profile
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.Put(ctx, KeyProfile, data)
}

// AssignIDs gives every activity without an ID a fresh UUID and
// returns how many were assigned
func AssignIDs(activities []Activity) int {
	assigned := 0
	for i := range activities {
		if activities[i].ID == "" {
			activities[i].ID = uuid.NewString()
			assigned++
		}
	}
	return assigned
}
