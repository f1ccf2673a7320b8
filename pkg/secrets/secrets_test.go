package secrets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	calls int
	value string
	found bool
}

func (f *fakeResolver) Resolve(key string) (string, bool) {
	f.calls++
	return f.value, f.found
}

func TestEnvResolverReadsEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	v, ok := EnvResolver{}.Resolve("OPENAI_API_KEY")
	assert.True(t, ok)
	assert.Equal(t, "sk-test", v)
}

func TestEnvResolverMissingKey(t *testing.T) {
	_, ok := EnvResolver{}.Resolve("DOES_NOT_EXIST_XYZ")
	assert.False(t, ok)
}

func TestCachingResolverMemoizes(t *testing.T) {
	fake := &fakeResolver{value: "v", found: true}
	c := NewCachingResolver(fake, time.Hour)

	v1, ok1 := c.Resolve("k")
	v2, ok2 := c.Resolve("k")

	assert.Equal(t, "v", v1)
	assert.Equal(t, "v", v2)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, 1, fake.calls, "second lookup should be served from cache")
}
