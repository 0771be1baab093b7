// Package events publishes platform events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/config"
	"github.com/ibondarenko1/hipaa-saas/pkg/models"
)

// Event is the envelope for all published events.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// AssessmentSubmittedEvent is emitted when a tenant submits an assessment.
type AssessmentSubmittedEvent struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// EngineRunCompletedEvent is emitted after a successful engine run.
type EngineRunCompletedEvent struct {
	TenantID     uuid.UUID       `json:"tenant_id"`
	AssessmentID uuid.UUID       `json:"assessment_id"`
	RunID        uuid.UUID       `json:"run_id"`
	Stats        models.RunStats `json:"stats"`
	FinishedAt   time.Time       `json:"finished_at"`
}

// Publisher publishes platform events. A nil Publisher is a no-op, so callers
// do not need to guard on Kafka being enabled.
type Publisher struct {
	producer sarama.SyncProducer
	cfg      config.KafkaConfig
	logger   *slog.Logger
}

// NewPublisher creates a Kafka-backed publisher. Returns (nil, nil) when
// Kafka is disabled in the configuration.
func NewPublisher(cfg config.KafkaConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Publisher{
		producer: producer,
		cfg:      cfg,
		logger:   slog.Default().With("component", "event-publisher"),
	}, nil
}

// PublishAssessmentSubmitted publishes an assessment.submitted event.
func (p *Publisher) PublishAssessmentSubmitted(ctx context.Context, ev AssessmentSubmittedEvent) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.cfg.Topics.AssessmentSubmitted, ev.AssessmentID.String(), Event{
		ID:        uuid.NewString(),
		Type:      "assessment.submitted",
		Source:    "hipaa-saas/api",
		Timestamp: time.Now().UTC(),
		Data:      ev,
	})
}

// PublishEngineRunCompleted publishes an engine.run.completed event.
func (p *Publisher) PublishEngineRunCompleted(ctx context.Context, ev EngineRunCompletedEvent) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, p.cfg.Topics.EngineRunCompleted, ev.AssessmentID.String(), Event{
		ID:        uuid.NewString(),
		Type:      "engine.run.completed",
		Source:    "hipaa-saas/api",
		Timestamp: time.Now().UTC(),
		Data:      ev,
	})
}

func (p *Publisher) publish(_ context.Context, topic, key string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}

	p.logger.Debug("event published",
		"topic", topic,
		"type", event.Type,
		"partition", partition,
		"offset", offset,
	)

	return nil
}

// Close closes the underlying producer.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
