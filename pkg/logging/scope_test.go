package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeginScopeNestsInOrder(t *testing.T) {
	ctx := BeginScope(context.Background(), "outer")
	ctx = BeginScope(ctx, "inner")
	assert.Equal(t, []string{"outer", "inner"}, ScopesFromContext(ctx))
}

func TestBeginScopeDoesNotMutateParentContext(t *testing.T) {
	parent := BeginScope(context.Background(), "outer")
	child := BeginScope(parent, "inner")
	assert.Equal(t, []string{"outer"}, ScopesFromContext(parent))
	assert.Equal(t, []string{"outer", "inner"}, ScopesFromContext(child))
}

func TestBeginScopeHandlesNilContext(t *testing.T) {
	ctx := BeginScope(nil, "only")
	assert.Equal(t, []string{"only"}, ScopesFromContext(ctx))
}

func TestScopePrefixEmptyWithoutScopes(t *testing.T) {
	assert.Equal(t, "", scopePrefix(context.Background()))
}

func TestScopePrefixFormatsChain(t *testing.T) {
	ctx := BeginScope(context.Background(), "A")
	ctx = BeginScope(ctx, "B")
	assert.Equal(t, "[Scopes: A | B] ", scopePrefix(ctx))
}
