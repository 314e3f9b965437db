package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamMeter(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	var buf bytes.Buffer
	m := newStreamMeter(&buf, now)
	assert.Zero(t, m.TimeToFirstByte())
	assert.Zero(t, m.Rate())

	clock = clock.Add(250 * time.Millisecond)
	n, err := m.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	clock = clock.Add(750 * time.Millisecond)
	_, err = m.Write([]byte(" world"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", buf.String())
	assert.Equal(t, int64(11), m.Bytes())
	assert.Equal(t, 250*time.Millisecond, m.TimeToFirstByte())
	assert.InDelta(t, 11.0, m.Rate(), 0.001)
}
