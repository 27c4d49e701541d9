package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/medrar/medrar_books_app/internal/core/ports/events"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher delivers ledger events to a Kafka topic. Events are keyed by
// contact id so all balance movements of one contact land on one partition
// in order.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	return &Publisher{writer: writer}
}

var _ events.Publisher = (*Publisher)(nil)

// Publish marshals the event as JSON and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event events.LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(strconv.FormatInt(event.ContactID, 10)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write ledger event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
