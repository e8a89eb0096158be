package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultHandlerAttempts = 3
	defaultHandlerBackoff  = 500 * time.Millisecond
)

// Handler processes a consumed Kafka message. A returned error is retried
// with backoff; once the attempts are spent the message is logged and its
// offset committed so the partition keeps moving.
type Handler func(ctx context.Context, msg Message) error

// Consumer wraps a kafka-go reader bound to one topic and consumer group.
type Consumer struct {
	reader   *kafkago.Reader
	handler  Handler
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// NewConsumer creates a Consumer for topic.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}

	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}
	if cfg.TLS || mechanism != nil {
		readerCfg.Dialer = &kafkago.Dialer{
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mechanism,
		}
	}

	c := newConsumer(handler, cfg.HandlerAttempts, cfg.HandlerBackoff, logger)
	c.reader = kafkago.NewReader(readerCfg)
	return c, nil
}

func newConsumer(handler Handler, attempts int, backoff time.Duration, logger *slog.Logger) *Consumer {
	if attempts <= 0 {
		attempts = defaultHandlerAttempts
	}
	if backoff <= 0 {
		backoff = defaultHandlerBackoff
	}
	return &Consumer{handler: handler, attempts: attempts, backoff: backoff, logger: logger}
}

// Start consumes until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.logger.Info("consumer starting", slog.String("topic", cfg.Topic), slog.String("group", cfg.GroupID))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", cfg.Topic))
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		msg := Message{
			Key:     m.Key,
			Value:   m.Value,
			Headers: make(map[string]string, len(m.Headers)),
		}
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				// Uncommitted; redelivered to the next group member.
				return nil
			}
			c.logger.Error("message skipped after retries",
				slog.String("topic", m.Topic),
				slog.Int("partition", m.Partition),
				slog.Int64("offset", m.Offset),
				slog.String("key", string(m.Key)),
				slog.String("error", err.Error()),
			)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				slog.String("topic", m.Topic),
				slog.Int("partition", m.Partition),
				slog.Int64("offset", m.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

// process runs the handler up to c.attempts times, doubling the delay
// between attempts.
func (c *Consumer) process(ctx context.Context, msg Message) error {
	delay := c.backoff
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err = c.handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == c.attempts {
			break
		}
		c.logger.Warn("handler failed, retrying",
			slog.String("key", string(msg.Key)),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
	return fmt.Errorf("after %d attempts: %w", c.attempts, err)
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
