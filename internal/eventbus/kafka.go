package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"freightengine/pkg/config"
	"freightengine/pkg/logger"
)

// KafkaBus is the Publisher/Subscriber adapter backed by segmentio/kafka-go,
// grounded on the order-service KafkaPublisher's writer setup (one
// *kafka.Writer per topic, LeastBytes balancing, synchronous acks).
type KafkaBus struct {
	cfg config.EventBusConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers []*kafka.Reader
}

// NewKafkaBus constructs a bus that lazily opens one writer per topic and
// tracks readers opened via Subscribe so Close can release them all.
func NewKafkaBus(cfg config.EventBusConfig) *KafkaBus {
	return &KafkaBus{cfg: cfg, writers: make(map[string]*kafka.Writer)}
}

func (b *KafkaBus) writerFor(topic string) *kafka.Writer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.writers[topic]; ok {
		return w
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(b.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: b.cfg.WriteTimeout,
	}
	b.writers[topic] = w
	return w
}

// Publish writes msg to its topic, carrying msg.Key as the Kafka partition
// key and msg.Headers as Kafka message headers.
func (b *KafkaBus) Publish(ctx context.Context, msg Message) error {
	w := b.writerFor(msg.Topic)
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	err := w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Key),
		Value:   msg.Value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("eventbus: publish to %s: %w", msg.Topic, err)
	}
	return nil
}

// Subscribe opens a reader for topic in the bus's consumer group and drains
// it until ctx is done, invoking handler per message and committing only on
// a nil return (at-least-once delivery).
func (b *KafkaBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        b.cfg.Brokers,
		Topic:          topic,
		GroupID:        b.cfg.ConsumerGroup,
		CommitInterval: b.cfg.CommitInterval,
	})
	b.mu.Lock()
	b.readers = append(b.readers, r)
	b.mu.Unlock()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("eventbus: fetch from %s: %w", topic, err)
		}

		headers := make(map[string]string, len(m.Headers))
		for _, h := range m.Headers {
			headers[h.Key] = string(h.Value)
		}

		if err := handler(ctx, Message{Topic: topic, Key: string(m.Key), Value: m.Value, Headers: headers}); err != nil {
			logger.Log.Error("eventbus handler failed, message left uncommitted", "topic", topic, "error", err)
			continue
		}
		if err := r.CommitMessages(ctx, m); err != nil {
			logger.Log.Error("eventbus commit failed", "topic", topic, "error", err)
		}
	}
}

// Close releases every writer and reader opened by this bus.
func (b *KafkaBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for _, w := range b.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, r := range b.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
