package publisher

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionCodecForMapsKnownValues(t *testing.T) {
	assert.Equal(t, sarama.CompressionGZIP, compressionCodecFor("gzip"))
	assert.Equal(t, sarama.CompressionSnappy, compressionCodecFor("Snappy"))
	assert.Equal(t, sarama.CompressionLZ4, compressionCodecFor("LZ4"))
	assert.Equal(t, sarama.CompressionNone, compressionCodecFor(""))
	assert.Equal(t, sarama.CompressionNone, compressionCodecFor("zstd"))
}

func TestSASLMechanismForMapsKnownValues(t *testing.T) {
	assert.Equal(t, sarama.SASLTypeSCRAMSHA256, saslMechanismFor("scram-sha-256"))
	assert.Equal(t, sarama.SASLTypeSCRAMSHA512, saslMechanismFor("SCRAM-SHA-512"))
	assert.Equal(t, sarama.SASLTypePlaintext, saslMechanismFor("PLAIN"))
	assert.Equal(t, sarama.SASLTypePlaintext, saslMechanismFor(""))
}

func TestNewKafkaSinkRequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaSink(KafkaConfig{Topic: "events"}, testLogger())
	assert.Error(t, err, "missing brokers should be rejected before dialing")

	_, err = NewKafkaSink(KafkaConfig{Brokers: []string{"localhost:9092"}}, testLogger())
	assert.Error(t, err, "missing topic should be rejected before dialing")
}

func TestScramClientBeginCreatesConversation(t *testing.T) {
	client := newScramClient(sha256Hash)
	require.NoError(t, client.Begin("user", "pass", ""))
	assert.NotNil(t, client.ClientConversation)
	assert.False(t, client.Done(), "a freshly begun conversation has not completed a step")
}

func TestScramClientStepRejectsMalformedServerChallenge(t *testing.T) {
	client := newScramClient(sha256Hash)
	require.NoError(t, client.Begin("user", "pass", ""))

	// The first Step produces the client-first message and doesn't parse
	// its argument; the second Step parses the server's response, so
	// that's where a malformed challenge is rejected.
	_, err := client.Step("")
	require.NoError(t, err)

	_, err = client.Step("not a valid scram server-first message")
	assert.Error(t, err)
}
