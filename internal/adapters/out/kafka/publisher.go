// Package kafka publishes committed parcel status changes to a Kafka topic,
// one JSON record per change keyed by tracking number.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// StatusChangedMessage is the record value written to the topic.
type StatusChangedMessage struct {
	ParcelID       string    `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	ActorID        string    `json:"actorId"`
	ActorRole      string    `json:"actorRole"`
	Note           string    `json:"note,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewStatusChangedMessage maps a domain event to its wire form.
func NewStatusChangedMessage(e parcel.StatusChanged) StatusChangedMessage {
	return StatusChangedMessage{
		ParcelID:       e.ParcelID.String(),
		TrackingNumber: e.TrackingNumber.String(),
		From:           e.From.String(),
		To:             e.To.String(),
		ActorID:        e.Actor.ID().String(),
		ActorRole:      e.Actor.Role().String(),
		Note:           e.Note,
		OccurredAt:     e.OccurredAt.UTC(),
	}
}

// Producer is the part of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Publisher writes StatusChanged events to a Kafka topic, keyed by tracking
// number so all events of one parcel land on the same partition.
type Publisher struct {
	producer Producer
	topic    string
}

// NewClient connects a franz-go client producing to topic by default.
func NewClient(brokers string, topic string) (*kgo.Client, error) {
	seeds := strings.Split(brokers, ",")
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// NewPublisher creates a publisher over producer. Returns ValueIsRequiredError
// if producer or topic is missing.
func NewPublisher(producer Producer, topic string) (*Publisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

// Publish produces one record per event and waits for all of them.
func (p *Publisher) Publish(ctx context.Context, events ...parcel.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(NewStatusChangedMessage(e))
		if err != nil {
			return fmt.Errorf("encode status change of %s: %w", e.TrackingNumber, err)
		}
		records = append(records, &kgo.Record{
			Topic: p.topic,
			Key:   []byte(e.TrackingNumber.String()),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "event-type", Value: []byte("parcel.status_changed")},
			},
		})
	}

	if err := p.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce status changes to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() {
	p.producer.Close()
}
