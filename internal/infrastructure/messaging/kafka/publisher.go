package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/99minutos/order-service/internal/core/domain"
)

const headerEventType = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// Publisher implements ports.EventPublisher by writing order events to a
// single Kafka topic keyed by order id.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{writer: &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}}
}

// Publish writes a JSON-encoded event. Events of the same order share a key
// and therefore a partition.
func (p *Publisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	msg, err := eventMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func eventMessage(event domain.OrderEvent) (kafkaGo.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafkaGo.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: headerEventType, Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}
