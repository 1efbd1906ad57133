package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/iho/gopay/internal/domain"
	"github.com/iho/gopay/internal/infrastructure/metrics"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// PublisherConfig holds settings for the validation-request publisher.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	Auth         Auth
}

// Publisher implements usecase.AntiFraudService over a single
// long-lived Kafka writer. Writes require acknowledgment from all
// in-sync replicas; anything weaker would silently trade away the
// pipeline's only durability guarantee.
type Publisher struct {
	writer  messageWriter
	topic   string
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewPublisher creates a new Publisher. Missing brokers or a missing
// topic is a configuration error and must abort startup.
func NewPublisher(cfg PublisherConfig, logger zerolog.Logger, m *metrics.Metrics) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka validation topic is not configured")
	}

	mechanism, err := saslMechanism(cfg.Auth)
	if err != nil {
		return nil, err
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.RoundRobin{}, // messages carry no key
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: writeTimeout,
		Transport: &kafkago.Transport{
			SASL: mechanism,
			TLS:  tlsConfig(cfg.Auth),
		},
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("kafka publisher initialized")

	return &Publisher{
		writer:  writer,
		topic:   cfg.Topic,
		logger:  logger,
		metrics: m,
	}, nil
}

// Submit serializes the transaction's current state and publishes it to
// the validation-request topic. A client-side delivery error and an
// unacknowledged write are the same failure from the caller's point of
// view: both surface as *domain.SubmissionError wrapping the cause.
func (p *Publisher) Submit(ctx context.Context, txn *domain.Transaction) error {
	payload, err := json.Marshal(txn)
	if err != nil {
		return domain.NewSubmissionError(txn.ExternalID, err)
	}

	if err := p.writer.WriteMessages(ctx, kafkago.Message{Value: payload}); err != nil {
		if p.metrics != nil {
			p.metrics.ValidationSubmitFailures.Inc()
		}

		p.logger.Error().Err(err).
			Str("transaction_id", txn.ExternalID).
			Str("topic", p.topic).
			Msg("failed to publish validation request")

		return domain.NewSubmissionError(txn.ExternalID, err)
	}

	if p.metrics != nil {
		p.metrics.ValidationSubmitted.Inc()
	}

	p.logger.Debug().
		Str("transaction_id", txn.ExternalID).
		Str("topic", p.topic).
		Msg("validation request published")

	return nil
}

// Close flushes buffered messages and releases the writer. In-flight
// sends are drained within the writer's write timeout.
func (p *Publisher) Close() error {
	p.logger.Info().Msg("closing kafka publisher")
	return p.writer.Close()
}
