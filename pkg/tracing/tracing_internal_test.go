package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := setup(context.Background(), Config{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, span := StartSpan(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	End(span, errors.New("ignored"))
}

func TestSetupStdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := setup(context.Background(), Config{Enabled: true, Exporter: "stdout", SampleRatio: 1, ServiceName: "test"}, &buf)
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "auth.Login")
	assert.True(t, span.SpanContext().IsValid())
	End(span, errors.New("invalid credentials"))

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "auth.Login")
	assert.Contains(t, buf.String(), "invalid credentials")
}

func TestSetupUnknownExporter(t *testing.T) {
	_, err := setup(context.Background(), Config{Enabled: true, Exporter: "zipkin"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnsupportedExporter)
}
