package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/voicy/logger"
)

// MessageWriter is the part of kafkago.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Stats() kafkago.WriterStats
	Close() error
}

// Producer publishes JSON messages with retries.
type Producer struct {
	writer MessageWriter
	cfg    Config
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
}

// NewProducer creates a Producer backed by a kafka-go Writer.
func NewProducer(cfg Config) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}

	transport, err := CreateTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer transport: %w", err)
	}
	log := logger.Get("kafka")
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Transport:              transport,
		Balancer:               &kafkago.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:            ResolveCompression(cfg.Compression),
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...any) {
			log.Error("writer: "+fmt.Sprintf(msg, args...))
		}),
	}
	return NewProducerWithWriter(cfg, w), nil
}

// NewProducerWithWriter creates a Producer over an existing writer.
func NewProducerWithWriter(cfg Config, w MessageWriter) *Producer {
	cfg.ApplyDefaults()
	return &Producer{writer: w, cfg: cfg, log: logger.Get("kafka")}
}

// WriteMessages sends msgs, retrying transient failures with a linear backoff.
func (p *Producer) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return fmt.Errorf("producer is closed")
	}

	var lastErr error
	for attempt := 1; attempt <= p.cfg.Retries; attempt++ {
		lastErr = p.writer.WriteMessages(ctx, msgs...)
		if lastErr == nil {
			return nil
		}
		if IsNonRetryableError(lastErr) {
			return lastErr
		}
		if attempt < p.cfg.Retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("write after %d attempts: %w", p.cfg.Retries, lastErr)
}

// SendJSON marshals value and writes it to topic under key.
func (p *Producer) SendJSON(ctx context.Context, topic, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return p.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
}

// Topic returns the configured report topic.
func (p *Producer) Topic() string { return p.cfg.Topic }

// Metrics returns writer counters.
func (p *Producer) Metrics() WriterMetrics {
	return CollectWriterMetrics(p.writer.Stats())
}

// Close flushes and closes the writer. Safe to call more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
