// Package notifier publishes fire-and-forget notices to the notification
// queue. Correctness of the clock ledger never depends on a notice landing,
// so publish failures are logged and dropped.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

const QueueName = "notification_queue"

type Notifier struct {
	channel        *amqp.Channel
	publishTimeout time.Duration
}

func New(channel *amqp.Channel, publishTimeout time.Duration) *Notifier {
	return &Notifier{
		channel:        channel,
		publishTimeout: publishTimeout,
	}
}

// Notify publishes the notice and deliberately returns nothing: callers
// must not branch on delivery.
func (n *Notifier) Notify(notification domain.Notification) {
	body, err := json.Marshal(notification)
	if err != nil {
		slog.Warn("failed to serialize notification", "type", notification.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.publishTimeout)
	defer cancel()

	err = n.channel.PublishWithContext(
		ctx,
		"",
		QueueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		slog.Warn("failed to publish notification", "type", notification.Type, "error", err)
	}
}
