package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded event.
type Handler func(ctx context.Context, event *Event) error

// Permanent marks a handler error as not worth retrying (e.g. a payload that
// fails validation). The message is committed and dropped immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent. backoff.Retry
// unwraps permanent errors, so check the handler's error, not Retry's.
func IsPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int

	// MaxAttempts bounds handler attempts per message. Zero means 3.
	MaxAttempts uint
	// RetryInterval is the first backoff between attempts. Zero means 100ms.
	RetryInterval time.Duration
	// DeadLetter, when set, receives messages that exhausted their retries.
	DeadLetter *DeadLetterWriter
}

// Consumer reads one topic as part of a consumer group and commits each
// message once it has been handled, dropped or dead-lettered.
type Consumer struct {
	reader     messageReader
	cfg        ConsumerConfig
	handler    Handler
	logger     *slog.Logger
	deadLetter func(ctx context.Context, msg kafka.Message, cause error) error
	closeOnce  sync.Once
}

// NewConsumer creates a consumer for cfg.Topic in cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, cfg, handler, logger)
}

func newConsumer(r messageReader, cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}
	c := &Consumer{reader: r, cfg: cfg, handler: handler, logger: logger}
	if cfg.DeadLetter != nil {
		c.deadLetter = func(ctx context.Context, msg kafka.Message, cause error) error {
			return cfg.DeadLetter.Write(ctx, msg, cause, cfg.GroupID)
		}
	}
	return c
}

// Start consumes until ctx is canceled, then closes the reader.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.InfoContext(ctx, "consumer started",
		slog.String("topic", c.cfg.Topic),
		slog.String("group", c.cfg.GroupID),
	)
	defer func() { _ = c.Close() }()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.cfg.Topic))
				return nil
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("consumer %s: reader closed", c.cfg.Topic)
			}
			c.logger.ErrorContext(ctx, "fetch message failed", slog.String("error", err.Error()))
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, "commit message failed",
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

// process runs the handler with retries. It never fails: every outcome ends in
// the message being committed.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	start := time.Now()
	defer func() {
		consumerProcessingDuration.WithLabelValues(c.cfg.Topic, c.cfg.GroupID).Observe(time.Since(start).Seconds())
	}()

	log := c.logger.With(
		slog.String("topic", msg.Topic),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)

	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		log.ErrorContext(ctx, "undecodable message dropped", slog.String("error", err.Error()))
		consumerMessagesFailed.WithLabelValues(c.cfg.Topic, c.cfg.GroupID).Inc()
		return
	}

	ctx = extractTrace(ctx, msg.Headers)
	log = log.With(
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
	)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryInterval

	permanent := false
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		err := c.handler(ctx, event)
		permanent = IsPermanent(err)
		return struct{}{}, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.cfg.MaxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.WarnContext(ctx, "handler failed, retrying",
				slog.Duration("backoff", wait),
				slog.String("error", err.Error()),
			)
		}),
	)
	if err == nil {
		consumerMessagesProcessed.WithLabelValues(c.cfg.Topic, c.cfg.GroupID).Inc()
		return
	}

	consumerMessagesFailed.WithLabelValues(c.cfg.Topic, c.cfg.GroupID).Inc()
	if permanent || c.deadLetter == nil {
		log.ErrorContext(ctx, "message dropped", slog.String("error", err.Error()))
		return
	}
	if dlqErr := c.deadLetter(ctx, msg, err); dlqErr != nil {
		log.ErrorContext(ctx, "dead-letter publish failed, message dropped",
			slog.String("error", err.Error()),
			slog.String("dlq_error", dlqErr.Error()),
		)
	}
}

// Close closes the reader. It is safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
