package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

const (
	_defaultReconnectWait = 2 * time.Second
	_defaultMaxReconnects = 10
	_defaultTimeout       = 5 * time.Second
)

// Publisher - публикация JSON-событий в NATS core.
type Publisher struct {
	conn    *nats.Conn
	timeout time.Duration
}

type options struct {
	name          string
	reconnectWait time.Duration
	maxReconnects int
	timeout       time.Duration
}

// Option -.
type Option func(*options)

func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// New -.
func New(url string, opts ...Option) (*Publisher, error) {
	o := &options{
		reconnectWait: _defaultReconnectWait,
		maxReconnects: _defaultMaxReconnects,
		timeout:       _defaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	conn, err := nats.Connect(url,
		nats.Name(o.name),
		nats.Timeout(o.timeout),
		nats.ReconnectWait(o.reconnectWait),
		nats.MaxReconnects(o.maxReconnects),
	)
	if err != nil {
		return nil, fmt.Errorf("nats - New - connect %s: %w", url, err)
	}

	return &Publisher{conn: conn, timeout: o.timeout}, nil
}

// PublishJSON кодирует value и ждёт, пока сервер примет сообщение.
func (p *Publisher) PublishJSON(ctx context.Context, subject string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("nats - marshal: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("nats - publish %s: %w", subject, err)
	}

	// FlushWithContext требует дедлайн
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats - flush %s: %w", subject, err)
	}

	return nil
}

// Close -.
func (p *Publisher) Close() error {
	if p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}
