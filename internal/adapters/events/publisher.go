// Package events publishes committed ledger entries to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// EventTypeEntryCommitted tags every message this package writes.
const EventTypeEntryCommitted = "ledger.entry_committed"

// EntryCommittedEvent is the JSON value of a published message.
type EntryCommittedEvent struct {
	Type       string             `json:"type"`
	OccurredAt time.Time          `json:"occurredAt"`
	Entry      domain.LedgerEntry `json:"entry"`
}

// Publisher writes ledger events to a Kafka topic, keyed by account so that
// one account's entries stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

var (
	_ portssvc.LedgerEventPublisher = (*Publisher)(nil)
	_ portssvc.LedgerEventPublisher = NoopPublisher{}
)

// NewPublisher returns a Kafka publisher, or a NoopPublisher when no brokers are configured.
func NewPublisher(brokers []string, topic string) portssvc.LedgerEventPublisher {
	if len(brokers) == 0 {
		return NoopPublisher{}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *Publisher) PublishEntryCommitted(ctx context.Context, entry domain.LedgerEntry) error {
	msg, err := buildMessage(entry, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish ledger event for entry %s: %w", entry.EntryID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessage(entry domain.LedgerEntry, at time.Time) (kafka.Message, error) {
	data, err := json.Marshal(EntryCommittedEvent{
		Type:       EventTypeEntryCommitted,
		OccurredAt: at,
		Entry:      entry,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode ledger event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(entry.AccountID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventTypeEntryCommitted)},
		},
	}, nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishEntryCommitted(context.Context, domain.LedgerEntry) error { return nil }

func (NoopPublisher) Close() error { return nil }
