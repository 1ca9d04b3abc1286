package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
)

// Publisher sends domain events as JSON to Kafka. A Publisher without a
// producer drops events, which is how a deployment without Kafka runs.
type Publisher struct {
	producer     sarama.SyncProducer
	topicPrefix  string
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	successCount atomic.Uint64
	errorCount   atomic.Uint64
	failing      atomic.Bool
}

func NewSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 500 * time.Millisecond
	config.Producer.Timeout = 10 * time.Second
	config.Producer.RequiredAcks = sarama.WaitForAll
	return config
}

func NewKafkaPublisher(brokers []string, topicPrefix string, logger zerolog.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		logger.Error().Err(err).Strs("brokers", brokers).Msg("failed to create Kafka SyncProducer")
		return nil, err
	}

	logger.Info().Strs("brokers", brokers).Msg("Kafka SyncProducer initialized")

	return NewPublisher(producer, topicPrefix, logger), nil
}

// NewPublisher wraps an existing producer; producer may be nil.
func NewPublisher(producer sarama.SyncProducer, topicPrefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		producer:    producer,
		topicPrefix: topicPrefix,
		metrics:     metrics.DefaultMetrics,
		logger:      logger.With().Str("component", "kafka").Logger(),
	}
}

// Topic returns the full topic name for a domain topic.
func (p *Publisher) Topic(topic string) string {
	if p.topicPrefix == "" {
		return topic
	}
	return p.topicPrefix + "." + topic
}

func (p *Publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	if p.producer == nil {
		p.logger.Debug().Str("topic", topic).Str("key", key).Msg("kafka disabled, event dropped")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		p.metrics.RecordKafkaError("marshal")
		p.logger.Error().
			Err(err).
			Str("topic", topic).
			Uint64("error_count", p.errorCount.Add(1)).
			Msg("failed to marshal event")
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.Topic(topic),
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	latency := time.Since(start)

	if err != nil {
		p.metrics.RecordKafkaError("send")
		p.logger.Error().
			Err(err).
			Str("topic", msg.Topic).
			Str("key", key).
			Dur("latency", latency).
			Uint64("error_count", p.errorCount.Add(1)).
			Msg("failed to send event to kafka")
		p.failing.Store(true)
		return err
	}

	p.failing.Store(false)
	p.metrics.RecordKafkaMessage(latency.Seconds())
	p.logger.Debug().
		Str("topic", msg.Topic).
		Str("key", key).
		Int32("partition", partition).
		Int64("offset", offset).
		Dur("latency", latency).
		Uint64("success_count", p.successCount.Add(1)).
		Msg("event sent to kafka")

	return nil
}

// Enabled reports whether events reach a broker.
func (p *Publisher) Enabled() bool {
	return p.producer != nil
}

// IsHealthy is false while the most recent send failed.
func (p *Publisher) IsHealthy() bool {
	return p.producer == nil || !p.failing.Load()
}

func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}

	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("failed to close Kafka producer")
		return err
	}

	p.logger.Info().Msg("Kafka producer closed")
	return nil
}
