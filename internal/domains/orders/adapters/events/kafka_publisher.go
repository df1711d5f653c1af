// Package events publishes order lifecycle events.
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/failure"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher writes each event to <prefix><event type>, keyed by order id
// so one order's events stay ordered within a partition.
type KafkaPublisher struct {
	writer      *kafka.Writer
	topicPrefix string
}

func NewKafkaPublisher(brokers []string, topicPrefix string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topicPrefix: topicPrefix,
	}, nil
}

// Topic maps an event type to its topic name.
func (p *KafkaPublisher) Topic(eventType string) string {
	return p.topicPrefix + strings.ReplaceAll(eventType, "_", "-")
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.Topic(eventType),
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return failure.Wrap(failure.Unavailable, err, "")
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
