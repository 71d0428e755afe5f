package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_SpansAndRecording(t *testing.T) {
	obs := New("dining-search-test")
	defer obs.Shutdown()

	ctx, span := obs.StartSpan(context.Background(), "venue-resolver", attribute.String("query", "Apollo"))
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NotPanics(t, func() {
		obs.RecordSearch(ctx, "ok")
		obs.RecordSearchDuration(ctx, 12*time.Millisecond, "ok")
	})
}

func TestObservability_ExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	obs := New("dining-search-test", WithSpanExporter(exporter))
	defer obs.Shutdown()

	_, span := obs.StartSpan(context.Background(), "orchestrator.run")
	span.End()
	require.NoError(t, obs.tracerProvider.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "orchestrator.run", spans[0].Name)
}

func TestNewSpanExporter(t *testing.T) {
	exp, err := NewSpanExporter("none")
	require.NoError(t, err)
	assert.Nil(t, exp)

	exp, err = NewSpanExporter("stdout")
	require.NoError(t, err)
	assert.NotNil(t, exp)

	_, err = NewSpanExporter("zipkin")
	assert.Error(t, err)
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		_, span := obs.StartSpan(context.Background(), "x")
		span.End()
		obs.RecordSearch(context.Background(), "ok")
		obs.Shutdown()
	})
}
