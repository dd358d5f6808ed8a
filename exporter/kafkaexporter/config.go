// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package kafkaexporter // import "go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"go.uber.org/multierr"
)

const (
	defaultTopic    = "otel_telemetry"
	defaultBroker   = "localhost:9092"
	defaultEncoding = "json"
	// default from sarama.NewConfig()
	defaultMetadataRetryMax = 3
	// default from sarama.NewConfig()
	defaultMetadataRetryBackoff = time.Millisecond * 250
	// default from sarama.NewConfig()
	defaultMetadataFull = true
	// default from sarama.NewConfig()
	defaultProducerTimeout = 10 * time.Second
)

// Config defines configuration for Kafka exporter.
type Config struct {
	// The list of kafka brokers (default localhost:9092)
	Brokers []string `mapstructure:"brokers"`
	// Kafka protocol version
	ProtocolVersion string `mapstructure:"protocol_version"`
	// The name of the kafka topic to export to (default otel_telemetry)
	Topic string `mapstructure:"topic"`
	// Encoding of messages (default "json")
	Encoding string `mapstructure:"encoding"`
	// Timeout is how long the broker waits for the required acks.
	Timeout time.Duration `mapstructure:"timeout"`

	// Metadata is the namespace for metadata management properties used by the
	// Client, and shared by the Producer/Consumer.
	Metadata Metadata `mapstructure:"metadata"`

	// Authentication defines used authentication mechanism.
	Authentication Authentication `mapstructure:"auth"`
}

// Authentication defines authentication with the brokers.
type Authentication struct {
	SASL *SASLConfig `mapstructure:"sasl"`
}

// SASLConfig defines the configuration for the SASL authentication.
type SASLConfig struct {
	// Username to be used on authentication
	Username string `mapstructure:"username"`
	// Password to be used on authentication
	Password string `mapstructure:"password"`
	// SASL Mechanism to be used, possible values are: (PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512).
	Mechanism string `mapstructure:"mechanism"`
}

// Validate checks if the SASL configuration is valid
func (s *SASLConfig) Validate() error {
	var errs error
	if s.Username == "" {
		errs = multierr.Append(errs, errors.New("auth.sasl.username is required"))
	}
	if s.Password == "" {
		errs = multierr.Append(errs, errors.New("auth.sasl.password is required"))
	}
	switch s.Mechanism {
	case sarama.SASLTypePlaintext, sarama.SASLTypeSCRAMSHA256, sarama.SASLTypeSCRAMSHA512:
	default:
		errs = multierr.Append(errs, fmt.Errorf("auth.sasl.mechanism should be one of 'PLAIN', 'SCRAM-SHA-256' or 'SCRAM-SHA-512'. configured value %q", s.Mechanism))
	}
	return errs
}

// Metadata defines configuration for retrieving metadata from the broker.
type Metadata struct {
	// Whether to maintain a full set of metadata for all topics, or just
	// the minimal set that has been necessary so far. The full set is simpler
	// and usually more convenient, but can take up a substantial amount of
	// memory if you have many topics and partitions. Defaults to true.
	Full bool `mapstructure:"full"`

	// Retry configuration for metadata.
	// This configuration is useful to avoid race conditions when broker
	// is starting at the same time as collector.
	Retry MetadataRetry `mapstructure:"retry"`
}

// MetadataRetry defines retry configuration for Metadata.
type MetadataRetry struct {
	// The total number of times to retry a metadata request when the
	// cluster is in the middle of a leader election or at startup (default 3).
	Max int `mapstructure:"max"`
	// How long to wait for leader election to occur before retrying
	// (default 250ms). Similar to the JVM's `retry.backoff.ms`.
	Backoff time.Duration `mapstructure:"backoff"`
}

// NewDefaultConfig returns the default settings.
func NewDefaultConfig() *Config {
	return &Config{
		Brokers:  []string{defaultBroker},
		Topic:    defaultTopic,
		Encoding: defaultEncoding,
		Timeout:  defaultProducerTimeout,
		Metadata: Metadata{
			Full: defaultMetadataFull,
			Retry: MetadataRetry{
				Max:     defaultMetadataRetryMax,
				Backoff: defaultMetadataRetryBackoff,
			},
		},
	}
}

// Validate checks if the exporter configuration is valid
func (cfg *Config) Validate() error {
	var errs error
	if len(cfg.Brokers) == 0 {
		errs = multierr.Append(errs, errors.New("at least one broker is required"))
	}
	if cfg.Topic == "" {
		errs = multierr.Append(errs, errors.New("topic must be non-empty"))
	}
	if _, ok := tracesMarshalers()[cfg.Encoding]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("unrecognized encoding %q", cfg.Encoding))
	}
	if cfg.ProtocolVersion != "" {
		if _, err := sarama.ParseKafkaVersion(cfg.ProtocolVersion); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid protocol_version: %w", err))
		}
	}
	if cfg.Authentication.SASL != nil {
		errs = multierr.Append(errs, cfg.Authentication.SASL.Validate())
	}
	return errs
}

func (cfg *Config) saramaConfig() (*sarama.Config, error) {
	c := sarama.NewConfig()
	// SyncProducer requires both channels.
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	if cfg.Timeout > 0 {
		c.Producer.Timeout = cfg.Timeout
	}
	c.Metadata.Full = cfg.Metadata.Full
	c.Metadata.Retry.Max = cfg.Metadata.Retry.Max
	c.Metadata.Retry.Backoff = cfg.Metadata.Retry.Backoff
	if cfg.ProtocolVersion != "" {
		version, err := sarama.ParseKafkaVersion(cfg.ProtocolVersion)
		if err != nil {
			return nil, err
		}
		c.Version = version
	}
	if cfg.Authentication.SASL != nil {
		configureSASL(cfg.Authentication.SASL, c)
	}
	return c, nil
}

func configureSASL(sasl *SASLConfig, c *sarama.Config) {
	c.Net.SASL.Enable = true
	c.Net.SASL.User = sasl.Username
	c.Net.SASL.Password = sasl.Password

	switch sasl.Mechanism {
	case sarama.SASLTypeSCRAMSHA512:
		c.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &scramClient{HashGeneratorFcn: sha512.New}
		}
		c.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
	case sarama.SASLTypeSCRAMSHA256:
		c.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &scramClient{HashGeneratorFcn: sha256.New}
		}
		c.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
	case sarama.SASLTypePlaintext:
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	}
}
