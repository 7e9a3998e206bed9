package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := Generate(0)
	require.NoError(t, err)
	assert.Len(t, a, DefaultLength)
	assert.Regexp(t, `^[a-zA-Z0-9]+$`, a)

	b, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	short, err := Generate(5)
	require.NoError(t, err)
	assert.Len(t, short, 5)
}
