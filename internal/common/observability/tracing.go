package observability

import (
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Option func(*Observability)

// WithSpanExporter batches finished spans to exp.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *Observability) {
		o.spanExporter = exp
	}
}

// NewSpanExporter builds the exporter named by tracing.exporter. "none"
// returns nil and spans are sampled but not exported.
func NewSpanExporter(kind string) (sdktrace.SpanExporter, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	default:
		return nil, fmt.Errorf("unsupported span exporter %q", kind)
	}
}
