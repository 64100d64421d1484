package models

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	generator := ULIDGenerator{now: func() time.Time { return fixed }}

	id, err := generator.ID()

	require.NoError(t, err)
	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixed), parsed.Time())
}

func TestULIDGeneratorIsUnique(t *testing.T) {
	generator := ULIDGenerator{}

	first, err := generator.ID()
	require.NoError(t, err)
	second, err := generator.ID()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRandomGenerator(t *testing.T) {
	generator := NewRandomGenerator(24)

	id, err := generator.ID()

	require.NoError(t, err)
	decoded, err := base64.RawURLEncoding.DecodeString(id)
	require.NoError(t, err)
	assert.Len(t, decoded, 24)
}
