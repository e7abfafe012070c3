// Package events publishes change notifications for stored data.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// DataUpdated is emitted after a key is written
type DataUpdated struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Bytes     int       `json:"bytes"`
	Subject   string    `json:"subject,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDataUpdated builds an event with a fresh ID
func NewDataUpdated(key string, size int, subject string, at time.Time) DataUpdated {
	return DataUpdated{
		ID:        uuid.NewString(),
		Key:       key,
		Bytes:     size,
		Subject:   subject,
		UpdatedAt: at.UTC(),
	}
}

// Publisher delivers change events
type Publisher interface {
	PublishDataUpdated(ctx context.Context, evt DataUpdated) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

// PublishDataUpdated implements Publisher
func (NopPublisher) PublishDataUpdated(context.Context, DataUpdated) error { return nil }

// Close implements Publisher
func (NopPublisher) Close() error { return nil }

// messageWriter is the subset of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a topic, creating its writer lazily
type KafkaPublisher struct {
	brokers []string
	topic   string

	mu     sync.Mutex
	writer messageWriter
}

// NewKafkaPublisher creates a KafkaPublisher
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{brokers: brokers, topic: topic}
}

// PublishDataUpdated writes the event keyed by data key so updates to the
// same key stay ordered within a partition
func (p *KafkaPublisher) PublishDataUpdated(ctx context.Context, evt DataUpdated) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.Key),
		Value: payload,
		Time:  evt.UpdatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("data.updated")},
			{Key: "event_id", Value: []byte(evt.ID)},
		},
	}
	if err := p.getWriter().WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s update: %w", evt.Key, err)
	}
	return nil
}

func (p *KafkaPublisher) getWriter() messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:                   kafka.TCP(p.brokers...),
			Topic:                  p.topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Compression:            kafka.Snappy,
			AllowAutoTopicCreation: true,
		}
	}
	return p.writer
}

// Close releases the writer
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}

// New returns a KafkaPublisher when brokers are configured, otherwise a NopPublisher
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
