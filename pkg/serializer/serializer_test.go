package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Empty string `json:"empty,omitempty"`
	Tag   string `json:"tag"`
}

func TestSerializeCompactByDefault(t *testing.T) {
	s, err := Serialize(sample{Name: "a<b>", Tag: "x&y"})
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"a\\u003cb\\u003e\",\"tag\":\"x\\u0026y\"}", s)
	assert.NotContains(t, s, "\n")
}

func TestSerializeOmitsEmptyTaggedFields(t *testing.T) {
	s, err := Serialize(sample{Name: "a"})
	require.NoError(t, err)
	assert.NotContains(t, s, "empty")
}

func TestDeserializeIsCaseInsensitive(t *testing.T) {
	v, err := Deserialize[sample](`{"NAME":"x","TAG":"y"}`)
	require.NoError(t, err)
	assert.Equal(t, "x", v.Name)
	assert.Equal(t, "y", v.Tag)
}

func TestDeserializeMalformedReturnsSerializationError(t *testing.T) {
	_, err := Deserialize[sample](`{not json`)
	require.Error(t, err)
}
