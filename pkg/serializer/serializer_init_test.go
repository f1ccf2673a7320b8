//go:build testhook

package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotentWithSameOptions(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	require.NoError(t, Init(Options{WriteIndented: true}))
	require.NoError(t, Init(Options{WriteIndented: true}))
}

func TestInitRejectsConflictingOptions(t *testing.T) {
	ResetForTesting()
	defer ResetForTesting()

	require.NoError(t, Init(Options{WriteIndented: true}))
	err := Init(Options{WriteIndented: false})
	assert.Error(t, err)
}
