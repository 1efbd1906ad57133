package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/iho/gopay/internal/domain"
	"github.com/iho/gopay/internal/infrastructure/metrics"
)

// DefaultStatusTopic is used when no status topic is configured.
const DefaultStatusTopic = "transaction-anti-fraud-service-status-updated"

// DefaultGroupID is the consumer group used when none is configured.
const DefaultGroupID = "transaction-group"

// VerdictApplier reconciles an anti-fraud verdict into persisted
// state. Implemented by usecase.TransactionUseCase.
type VerdictApplier interface {
	ApplyVerdict(ctx context.Context, verdict domain.Verdict) error
}

// messageReader is the slice of *kafkago.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// ConsumerConfig holds settings for the verdict consumer.
type ConsumerConfig struct {
	Brokers []string
	Topic   string // falls back to DefaultStatusTopic
	GroupID string // falls back to DefaultGroupID
	MaxWait time.Duration
	Auth    Auth
}

// Consumer is the long-running subscriber on the validation-status
// topic. It processes messages strictly sequentially: a verdict is
// applied, then its offset is committed, so a crash in between causes
// redelivery rather than loss. Malformed payloads are committed and
// dropped; a message that can never parse would otherwise wedge the
// partition forever.
type Consumer struct {
	reader  messageReader
	applier VerdictApplier
	topic   string
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewConsumer creates a new Consumer. Missing brokers is a
// configuration error and must abort startup; a missing topic falls
// back to DefaultStatusTopic.
func NewConsumer(cfg ConsumerConfig, applier VerdictApplier, logger zerolog.Logger, m *metrics.Metrics) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultStatusTopic
	}

	groupID := cfg.GroupID
	if groupID == "" {
		groupID = DefaultGroupID
	}

	maxWait := cfg.MaxWait
	if maxWait == 0 {
		maxWait = 500 * time.Millisecond
	}

	mechanism, err := saslMechanism(cfg.Auth)
	if err != nil {
		return nil, err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		// Bounded wait keeps the loop responsive to cancellation.
		MaxWait: maxWait,
		Dialer: &kafkago.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           tlsConfig(cfg.Auth),
		},
	})

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", topic).
		Str("group_id", groupID).
		Msg("kafka consumer initialized")

	return &Consumer{
		reader:  reader,
		applier: applier,
		topic:   topic,
		logger:  logger,
		metrics: m,
	}, nil
}

// Run polls the status topic until ctx is cancelled or the reader is
// closed. Broker-level fetch errors are logged and retried with
// exponential backoff; they never terminate the loop. The in-flight
// message always completes before Run returns.
func (c *Consumer) Run(ctx context.Context) error {
	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = 0 // retry broker errors indefinitely

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.logger.Info().Str("topic", c.topic).Msg("kafka consumer stopping")
				return nil
			}

			if c.metrics != nil {
				c.metrics.ConsumeErrors.Inc()
			}
			c.logger.Error().Err(err).Str("topic", c.topic).Msg("kafka consume error")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(boff.NextBackOff()):
			}

			continue
		}

		boff.Reset()
		c.handleMessage(ctx, msg)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafkago.Message) {
	verdict, ok := c.parseVerdict(msg)
	if !ok {
		// Commit-and-drop: a payload that cannot parse today cannot
		// parse tomorrow either, so retrying it is a livelock.
		if c.metrics != nil {
			c.metrics.MalformedVerdictsDropped.Inc()
		}
		c.commit(ctx, msg)

		return
	}

	if err := c.applier.ApplyVerdict(ctx, verdict); err != nil {
		// Offset is not committed: the broker redelivers this message
		// and verdict application is idempotent.
		c.logger.Error().Err(err).
			Str("transaction_id", verdict.TransactionExternalID).
			Msg("failed to apply verdict, message will be redelivered")

		return
	}

	if c.metrics != nil {
		c.metrics.VerdictsApplied.WithLabelValues(verdict.Status.String()).Inc()
	}

	c.commit(ctx, msg)
}

func (c *Consumer) parseVerdict(msg kafkago.Message) (domain.Verdict, bool) {
	if len(msg.Value) == 0 {
		c.logger.Warn().Str("topic", c.topic).Msg("received empty verdict message")
		return domain.Verdict{}, false
	}

	var verdict domain.Verdict
	if err := json.Unmarshal(msg.Value, &verdict); err != nil {
		c.logger.Warn().Err(err).Str("topic", c.topic).Msg("received malformed verdict message")
		return domain.Verdict{}, false
	}

	if verdict.TransactionExternalID == "" {
		c.logger.Warn().Str("topic", c.topic).Msg("received verdict without a transaction id")
		return domain.Verdict{}, false
	}

	return verdict, true
}

func (c *Consumer) commit(ctx context.Context, msg kafkago.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		// The verdict was applied; redelivery after a commit failure
		// re-applies it harmlessly.
		c.logger.Error().Err(err).Str("topic", c.topic).Msg("failed to commit offset")
	}
}

// Close leaves the consumer group and unblocks a pending fetch.
func (c *Consumer) Close() error {
	c.logger.Info().Str("topic", c.topic).Msg("closing kafka consumer")
	return c.reader.Close()
}
