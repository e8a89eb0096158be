package port

import (
	"context"

	"github.com/bibbank/aml-service/pkg/events"
)

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
