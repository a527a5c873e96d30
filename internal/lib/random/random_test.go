package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	first, err := Token(32)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := Token(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
