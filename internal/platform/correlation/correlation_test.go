package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDShapeAndUniqueness(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestContextRoundtrip(t *testing.T) {
	ctx := context.Background()

	_, ok := ID(ctx)
	assert.False(t, ok)

	ctx = WithID(ctx, "deadbeef")
	id, ok := ID(ctx)
	require.True(t, ok)
	assert.Equal(t, "deadbeef", id)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestHandlerInjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithID(context.Background(), "deadbeef")
	logger.InfoContext(ctx, "hello")
	assert.Contains(t, buf.String(), "correlation_id=deadbeef")

	buf.Reset()
	logger.InfoContext(context.Background(), "hello")
	assert.NotContains(t, buf.String(), "correlation_id")
}
