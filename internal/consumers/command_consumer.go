package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/marketpulse/internal/clients/kafka_client"
	"github.com/spacesedan/marketpulse/internal/models"
)

// MessageSource is satisfied by kafka_client.KafkaMessageIterator.
type MessageSource interface {
	Next() (*kafka.Message, error)
}

// Committer is satisfied by kafka_client.KafkaCommitHandler.
type Committer interface {
	Commit(msg *kafka.Message) error
}

// CommandHandler is satisfied by dispatcher.Dispatcher.
type CommandHandler interface {
	HandleText(ctx context.Context, subscriberID, text string) error
}

// StartCommandConsumer reads chat commands from Kafka until ctx ends.
func StartCommandConsumer(ctx context.Context, consumer *kafka.Consumer, handler CommandHandler) {
	RunCommandLoop(ctx,
		kafka_client.NewKafkaMessageIterator(ctx, consumer),
		kafka_client.NewCommitHandler(ctx, consumer),
		handler)
}

// RunCommandLoop routes each inbound command to handler and commits it once
// handled. Unreadable messages are committed and skipped so they cannot stall
// the partition.
func RunCommandLoop(ctx context.Context, source MessageSource, committer Committer, handler CommandHandler) {
	for {
		select {
		case <-ctx.Done():
			slog.Warn("[CommandConsumer] Stopping consumer...")
			return
		default:
		}

		msg, err := source.Next()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				continue
			}
			slog.Error("[CommandConsumer] Failed to read message", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
			case <-time.After(kafka_client.RETRY_DELAY):
			}
			continue
		}

		handleMessage(ctx, msg, handler)

		if err := committer.Commit(msg); err != nil {
			slog.Warn("[CommandConsumer] Failed to commit offset", slog.String("error", err.Error()))
		}
	}
}

func handleMessage(ctx context.Context, msg *kafka.Message, handler CommandHandler) {
	var cmd models.InboundCommand
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		slog.Warn("[CommandConsumer] Failed to deserialize command, skipping...",
			slog.String("error", err.Error()))
		return
	}
	if cmd.SubscriberID == "" || strings.TrimSpace(cmd.Text) == "" {
		slog.Warn("[CommandConsumer] Command without subscriber or text, skipping...")
		return
	}

	if err := handler.HandleText(ctx, cmd.SubscriberID, cmd.Text); err != nil {
		slog.Error("[CommandConsumer] Failed to handle command",
			slog.String("subscriber", cmd.SubscriberID),
			slog.String("error", err.Error()))
	}
}
