package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Xushengqwer/codefix_portal/config"
)

func TestInitTracerProvider_Stdout(t *testing.T) {
	shutdown, err := InitTracerProvider("codefix-test", "0.0.1", config.TracerConfig{Enabled: true, Exporter: "stdout", SampleRatio: 5})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracerProvider_BadExporter(t *testing.T) {
	_, err := InitTracerProvider("codefix-test", "0.0.1", config.TracerConfig{Exporter: "zipkin"})
	assert.Error(t, err)

	_, err = InitTracerProvider("codefix-test", "0.0.1", config.TracerConfig{Exporter: "otlphttp"})
	assert.Error(t, err)
}
