// Package config loads the payment engine's runtime configuration from the
// environment: journal backend selection, Kafka ingestion, actor-call
// timeouts, logging and the read-only API's listener.
package config

import (
	"strconv"
	"strings"
	"time"

	"os"
)

// Config is the full set of env-driven knobs the payment engine reads at
// startup. Nothing here is reloaded at runtime.
type Config struct {
	Journal JournalConfig
	Kafka   KafkaConfig
	Actor   ActorConfig
	Logging LoggingConfig
	API     APIConfig
}

// JournalBackend selects which Journal implementation the process wires
// up. "memory" is the default; "postgres" requires Journal.DSN.
type JournalBackend string

const (
	JournalBackendMemory   JournalBackend = "memory"
	JournalBackendPostgres JournalBackend = "postgres"
)

type JournalConfig struct {
	Backend JournalBackend
	DSN     string
}

// KafkaConfig configures the Kafka InputSource used by the `consume`
// subcommand. Enabled is loaded from KAFKA_INGEST_ENABLED (false by
// default) but nothing outside this package reads it; `consume` connects
// to Kafka regardless.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	Topic         string
	ConsumerGroup string
	ClientID      string
}

// ActorConfig carries the per-call actor deadlines: 500ms for command
// processing, 100ms for state reads.
type ActorConfig struct {
	CommandTimeout time.Duration
	ReadTimeout    time.Duration
	// Namespace is loaded from ACTOR_NAMESPACE. The cmd entry points build
	// their registries with registry.WithTimeouts, which takes no namespace,
	// so it does not change actor names there; registry.WithNamespace is
	// what applies the "{namespace}-client-{id}" naming.
	Namespace string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// APIConfig configures the read-only HTTP facade (cmd/api).
type APIConfig struct {
	Port             string
	Host             string
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
}

// Load reads Config from the environment, applying defaults for anything
// unset.
func Load() *Config {
	return &Config{
		Journal: JournalConfig{
			Backend: JournalBackend(getEnv("JOURNAL_BACKEND", string(JournalBackendMemory))),
			DSN:     getEnv("JOURNAL_POSTGRES_DSN", ""),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvAsBool("KAFKA_INGEST_ENABLED", false),
			Brokers:       getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:         getEnv("KAFKA_TOPIC", "payment.commands"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "payment-engine"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "payment-engine"),
		},
		Actor: ActorConfig{
			CommandTimeout: getEnvAsDuration("ACTOR_COMMAND_TIMEOUT", 500*time.Millisecond),
			ReadTimeout:    getEnvAsDuration("ACTOR_READ_TIMEOUT", 100*time.Millisecond),
			Namespace:      getEnv("ACTOR_NAMESPACE", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		API: APIConfig{
			Port:             getEnv("API_PORT", "8080"),
			Host:             getEnv("API_HOST", "localhost"),
			AllowOrigins:     getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Accept"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, ",")
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(valStr); err == nil {
		return d
	}
	return defaultVal
}
