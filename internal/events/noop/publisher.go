package noop

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/ports/events"
)

// Publisher discards every event. Used when no broker is configured.
type Publisher struct{}

// NewPublisher creates a publisher that drops everything.
func NewPublisher() *Publisher {
	return &Publisher{}
}

var _ events.Publisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event events.LedgerEvent) error {
	return nil
}

func (p *Publisher) Close() error {
	return nil
}
