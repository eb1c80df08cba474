package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

const (
	_defaultWriteTimeout = 10 * time.Second
	_defaultBatchSize    = 100
	_defaultBatchTimeout = 50 * time.Millisecond
)

// messageWriter - часть kafka.Writer, которой пользуется Producer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer - Kafka message producer.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer - продюсер в один топик. Соединение открывается лениво при первой записи.
func NewProducer(brokers []string, topic string, opts ...ProducerOption) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka producer: brokers list is empty")
	}

	if topic == "" {
		return nil, errors.New("kafka producer: topic is empty")
	}

	config := &producerConfig{
		writeTimeout: _defaultWriteTimeout,
		batchSize:    _defaultBatchSize,
		batchTimeout: _defaultBatchTimeout,
		compression:  kafka.Snappy,
	}

	for _, opt := range opts {
		opt(config)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           config.writeTimeout,
		BatchSize:              config.batchSize,
		BatchTimeout:           config.batchTimeout,
		Compression:            config.compression,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer, topic: topic}, nil
}

// WriteMessage - отправить одно сообщение; value кодируется в JSON.
// Сообщения с одним ключом попадают в одну партицию.
func (p *Producer) WriteMessage(ctx context.Context, key string, value interface{}) error {
	msg, err := NewMessage(key, value)
	if err != nil {
		return fmt.Errorf("kafka producer - %w", err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka producer - write message to %s: %w", p.topic, err)
	}

	return nil
}

// Close - закрывает продюсер
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

type producerConfig struct {
	writeTimeout time.Duration
	batchSize    int
	batchTimeout time.Duration
	compression  kafka.Compression
}

// ProducerOption - настройки
type ProducerOption func(*producerConfig)

func WithWriteTimeout(timeout time.Duration) ProducerOption {
	return func(c *producerConfig) {
		c.writeTimeout = timeout
	}
}

func WithBatchSize(size int) ProducerOption {
	return func(c *producerConfig) {
		c.batchSize = size
	}
}

func WithBatchTimeout(timeout time.Duration) ProducerOption {
	return func(c *producerConfig) {
		c.batchTimeout = timeout
	}
}

func WithCompression(compression kafka.Compression) ProducerOption {
	return func(c *producerConfig) {
		c.compression = compression
	}
}

// ParseCompression - имя кодека из конфига. Пустая строка - snappy, "none" - без сжатия.
func ParseCompression(name string) (kafka.Compression, error) {
	switch strings.ToLower(name) {
	case "", "snappy":
		return kafka.Snappy, nil
	case "none":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("kafka producer: unknown compression %q", name)
	}
}

// NewMessage - helper
func NewMessage(key string, value interface{}) (kafka.Message, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal message: %w", err)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}, nil
}
