package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/spacesedan/marketpulse/internal/models"
)

// Producer publishes outbound chat messages for the chat bridge.
type Producer struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...", slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer := &Producer{producer: p, topic: cfg.OutboundTopic, done: make(chan struct{})}
	go producer.watchDeliveries()

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return producer, nil
}

func (p *Producer) watchDeliveries() {
	defer close(p.done)
	for e := range p.producer.Events() {
		msg, ok := e.(*kafka.Message)
		if !ok || msg.TopicPartition.Error == nil {
			continue
		}
		slog.Warn("[KafkaClient] Message delivery failed",
			slog.String("key", string(msg.Key)),
			slog.String("error", msg.TopicPartition.Error.Error()))
	}
}

// Send publishes text for subscriberID as the given kind. Messages are keyed by
// subscriber so one chat's messages stay ordered.
func (p *Producer) Send(ctx context.Context, kind models.MessageKind, subscriberID, text string) error {
	out := models.OutboundMessage{
		ID:           uuid.NewString(),
		SubscriberID: subscriberID,
		Kind:         kind,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}

	jsonData, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal outbound message: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(subscriberID),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = p.producer.Produce(msg, nil)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(250 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
	}

	slog.Debug("[KafkaClient] Published outbound message",
		slog.String("id", out.ID),
		slog.String("kind", string(kind)),
		slog.String("subscriber_id", subscriberID))
	return nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	<-p.done
	slog.Info("[KafkaClient] Kafka producer shut down")
}
