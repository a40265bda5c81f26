package kafka_client

import (
	"context"

	"github.com/spacesedan/marketpulse/internal/models"
)

// MessageSender is satisfied by Producer.
type MessageSender interface {
	Send(ctx context.Context, kind models.MessageKind, subscriberID, text string) error
}

// Notifier publishes every message it is given with a fixed kind, so alerts
// and command replies can share one producer.
type Notifier struct {
	sender MessageSender
	kind   models.MessageKind
}

func NewNotifier(sender MessageSender, kind models.MessageKind) *Notifier {
	return &Notifier{sender: sender, kind: kind}
}

func (n *Notifier) Send(ctx context.Context, subscriberID, text string) error {
	return n.sender.Send(ctx, n.kind, subscriberID, text)
}
