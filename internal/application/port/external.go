package port

import (
	"context"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/event"
)

// EventPublisher receives domain events after a transition commits.
// Delivery (notifications, audit trail) is the subscriber's concern; a
// failed publish never rolls back the transition it describes.
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event)
}
