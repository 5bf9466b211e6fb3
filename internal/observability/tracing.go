// Package observability sets up OpenTelemetry tracing for quizgen.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/logger"
)

const serviceName = "quizgen"

// Options carries what NewTracerProvider needs beyond the trace config.
type Options struct {
	Version string
	Log     *logger.Logger

	// Stdout receives spans from the stdout exporter. Defaults to stderr so
	// quiz output on stdout stays clean.
	Stdout io.Writer
}

// NewTracerProvider builds an SDK tracer provider for cfg. It returns nil
// when tracing is disabled.
func NewTracerProvider(ctx context.Context, cfg config.TraceConfig, opts Options) (*sdktrace.TracerProvider, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	exporter, err := buildExporter(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		return nil, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(opts.Version),
		),
	)
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)
	log.Info("otel tracing initialized", "exporter", cfg.Exporter, "endpoint", cfg.Endpoint)
	return tp, nil
}

// Install makes tp the global tracer provider and sets the W3C propagators.
func Install(tp *sdktrace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func buildExporter(ctx context.Context, cfg config.TraceConfig, opts Options) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", "none":
		return nil, nil
	case "stdout":
		w := opts.Stdout
		if w == nil {
			w = os.Stderr
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case "otlp":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("otlp exporter needs an endpoint")
		}
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, httpOpts...)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
}
