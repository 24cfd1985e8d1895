package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/joelyk/maison-du-parfum/pkg/logger"
	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultProduceTimeout bounds one publish, including broker retries.
const DefaultProduceTimeout = 5 * time.Second

type recordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher writes order events to a topic keyed by order id.
type KafkaPublisher struct {
	client  recordProducer
	topic   string
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.RecordDeliveryTimeout(DefaultProduceTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	logger.Info("Kafka publisher initialized", logger.Fields{
		"brokers": brokers,
		"topic":   topic,
	})
	return &KafkaPublisher{client: client, topic: topic, timeout: DefaultProduceTimeout}, nil
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: value,
	}
	timeout := p.timeout
	if timeout <= 0 {
		timeout = DefaultProduceTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		logger.Error("Failed to produce order event", err, logger.Fields{
			"order_id": event.OrderID,
			"topic":    p.topic,
		})
		return err
	}

	logger.Debug("Order event produced", logger.Fields{
		"order_id": event.OrderID,
		"topic":    p.topic,
	})
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
