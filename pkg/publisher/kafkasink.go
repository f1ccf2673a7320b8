package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
)

// KafkaAuth configures SASL authentication for KafkaSink, adapted from the
// teacher's KafkaSinkConfig.Auth, simplified to the mechanisms this module
// actually wires (PLAIN, SCRAM-SHA-256/512 via xdg-go/scram).
type KafkaAuth struct {
	Enabled   bool
	Username  string
	Password  string
	Mechanism string // "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
}

// KafkaConfig configures KafkaSink, adapted from the teacher's
// KafkaSinkConfig, trimmed to a single-record-per-call producer instead of
// the teacher's own internal batching (batching here is the publisher
// queue's job, not the sink's).
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	Compression string // "gzip", "snappy", "lz4"; anything else = none
	Timeout     time.Duration
	RetryMax    int
	Auth        KafkaAuth
}

// KafkaSink produces one serialized record per Publisher call to a Kafka
// topic, adapted from internal/sinks/kafka_sink.go's Sarama configuration.
type KafkaSink struct {
	cfg      KafkaConfig
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

func NewKafkaSink(cfg KafkaConfig, logger *logrus.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka sink: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka sink: no topic configured")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal

	saramaConfig.Producer.Compression = compressionCodecFor(cfg.Compression)

	if cfg.Timeout > 0 {
		saramaConfig.Net.DialTimeout = cfg.Timeout
		saramaConfig.Net.ReadTimeout = cfg.Timeout
		saramaConfig.Net.WriteTimeout = cfg.Timeout
	}
	if cfg.RetryMax > 0 {
		saramaConfig.Producer.Retry.Max = cfg.RetryMax
	}

	if cfg.Auth.Enabled {
		saramaConfig.Net.SASL.Enable = true
		saramaConfig.Net.SASL.User = cfg.Auth.Username
		saramaConfig.Net.SASL.Password = cfg.Auth.Password
		saramaConfig.Net.SASL.Mechanism = saslMechanismFor(cfg.Auth.Mechanism)
		switch saramaConfig.Net.SASL.Mechanism {
		case sarama.SASLTypeSCRAMSHA256:
			saramaConfig.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient { return newScramClient(sha256Hash) }
		case sarama.SASLTypeSCRAMSHA512:
			saramaConfig.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient { return newScramClient(sha512Hash) }
		}
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("kafka sink: %w", err)
	}

	return &KafkaSink{cfg: cfg, producer: producer, logger: logger}, nil
}

// compressionCodecFor maps KafkaConfig.Compression to the sarama codec,
// defaulting to no compression for an empty or unrecognized value.
func compressionCodecFor(compression string) sarama.CompressionCodec {
	switch strings.ToLower(compression) {
	case "gzip":
		return sarama.CompressionGZIP
	case "snappy":
		return sarama.CompressionSnappy
	case "lz4":
		return sarama.CompressionLZ4
	default:
		return sarama.CompressionNone
	}
}

// saslMechanismFor maps KafkaAuth.Mechanism to the sarama SASL mechanism,
// defaulting to plaintext for an empty or unrecognized value.
func saslMechanismFor(mechanism string) sarama.SASLMechanism {
	switch strings.ToUpper(mechanism) {
	case "SCRAM-SHA-256":
		return sarama.SASLTypeSCRAMSHA256
	case "SCRAM-SHA-512":
		return sarama.SASLTypeSCRAMSHA512
	default:
		return sarama.SASLTypePlaintext
	}
}

func (k *KafkaSink) WriteMessage(_ context.Context, message string) error {
	msg := &sarama.ProducerMessage{
		Topic: k.cfg.Topic,
		Value: sarama.StringEncoder(message),
	}
	_, _, err := k.producer.SendMessage(msg)
	if err != nil {
		metrics.PublisherErrorsTotal.WithLabelValues("kafka:" + k.cfg.Topic).Inc()
		return err
	}
	return nil
}

func (k *KafkaSink) Close() error {
	return k.producer.Close()
}
