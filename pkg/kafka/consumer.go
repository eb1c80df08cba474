package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

const (
	_defaultMaxWait        = 10 * time.Second
	_defaultMinBytes       = 1
	_defaultMaxBytes       = 10e6 // 10MB
	_defaultCommitInterval = 0    // синхронный коммит после обработки
)

// messageReader - часть kafka.Reader, которой пользуется Consumer.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer -.
type Consumer struct {
	reader messageReader
	topic  string
}

// NewConsumer -.
func NewConsumer(brokers []string, topic, groupID string, opts ...ConsumerOption) *Consumer {
	config := &consumerConfig{
		maxWait:        _defaultMaxWait,
		minBytes:       _defaultMinBytes,
		maxBytes:       _defaultMaxBytes,
		commitInterval: _defaultCommitInterval,
	}

	for _, opt := range opts {
		opt(config)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		Topic:             topic,
		GroupID:           groupID,
		MinBytes:          config.minBytes,
		MaxBytes:          config.maxBytes,
		MaxWait:           config.maxWait,
		CommitInterval:    config.commitInterval,
		StartOffset:       kafka.LastOffset,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})

	return &Consumer{
		reader: reader,
		topic:  topic,
	}
}

func (c *Consumer) Topic() string {
	return c.topic
}

// Close -.
func (c *Consumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

type consumerConfig struct {
	maxWait        time.Duration
	minBytes       int
	maxBytes       int
	commitInterval time.Duration
}

// ConsumerOption -.
type ConsumerOption func(*consumerConfig)

// WithMaxWait -.
func WithMaxWait(duration time.Duration) ConsumerOption {
	return func(c *consumerConfig) {
		c.maxWait = duration
	}
}

// WithCommitInterval -.
func WithCommitInterval(interval time.Duration) ConsumerOption {
	return func(c *consumerConfig) {
		c.commitInterval = interval
	}
}

type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

type MessageHandlerFunc func(ctx context.Context, msg kafka.Message) error

// Handle -.
func (f MessageHandlerFunc) Handle(ctx context.Context, msg kafka.Message) error {
	return f(ctx, msg)
}

// Consume читает сообщения до отмены ctx. Сообщение коммитится после Handle,
// даже если тот вернул ошибку: onError решает, что с ней делать.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler, onError func(kafka.Message, error)) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			return fmt.Errorf("kafka consumer - fetch message: %w", err)
		}

		if err := handler.Handle(ctx, msg); err != nil && onError != nil {
			onError(msg, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("kafka consumer - commit messages: %w", err)
		}
	}
}

func UnmarshalMessage(msg kafka.Message, v interface{}) error {
	if err := json.Unmarshal(msg.Value, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
