package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"fricu/internal/events"
	"fricu/internal/observability"
	"fricu/internal/store"
)

// SyncService serves the app's document sync: reads return the stored
// JSON, writes persist it and announce the change
type SyncService struct {
	store     *store.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewSyncService creates a sync service. A nil publisher drops events.
func NewSyncService(s *store.Store, publisher events.Publisher) *SyncService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &SyncService{store: s, publisher: publisher, now: time.Now}
}

// Get returns the document stored under key
func (s *SyncService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	return s.store.Get(ctx, key)
}

// Put replaces the document under key. The change event is best effort:
// a publish failure is logged and counted but does not fail the write.
func (s *SyncService) Put(ctx context.Context, key string, payload []byte, subject string) error {
	if err := s.store.Put(ctx, key, payload); err != nil {
		return err
	}

	now := s.now()
	observability.RecordDataUpdated(key, now)

	evt := events.NewDataUpdated(key, len(payload), subject, now)
	if err := s.publisher.PublishDataUpdated(ctx, evt); err != nil {
		observability.RecordPublishFailure()
		log.Warn().Err(err).Str("key", key).Str("event_id", evt.ID).Msg("publishing data update failed")
	}
	return nil
}

// SaveProfile stores the athlete profile through the same path as API
// writes so subscribers see the change
func (s *SyncService) SaveProfile(ctx context.Context, p store.Profile, subject string) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.Put(ctx, store.KeyProfile, payload, subject)
}
