// Package kafka implements the Kafka ingest.Source: a sarama consumer
// group that turns incoming CSV-row-shaped JSON messages into
// domain.Commands, tagged with a partition/offset deduplication key so
// at-least-once redelivery never double-applies a command.
package kafka

import (
	"github.com/IBM/sarama"

	"paymentengine/internal/pkg/config"
)

// Config holds Kafka consumer configuration for the ingest source:
// brokers, topic, consumer group, and client id, matching
// config.KafkaConfig.
type Config struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	ClientID      string
}

// FromAppConfig adapts the shared config.KafkaConfig into a Config for this
// package, so cmd/payment only has to load config.Config once.
func FromAppConfig(c config.KafkaConfig) Config {
	return Config{
		Brokers:       c.Brokers,
		Topic:         c.Topic,
		ConsumerGroup: c.ConsumerGroup,
		ClientID:      c.ClientID,
	}
}

// ToSaramaConfig builds the sarama.Config this source consumes with:
// oldest-offset start, auto-commit off. A decoded record's offset is marked
// and committed once it is handed to the caller; a malformed message is
// marked and committed as soon as it is skipped.
func (c Config) ToSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = c.ClientID
	cfg.Version = sarama.V3_0_0_0

	cfg.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.AutoCommit.Enable = false

	return cfg
}
