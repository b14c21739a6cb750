package infra

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/pkg/bininfo"
	"github.com/lottostats/backend/internal/pkg/observability"
)

// Tracing installs the global tracer provider. It returns nil when tracing
// is disabled; the HTTP server and the database hook then stay untraced.
func Tracing(conf *appconfig.Config, lc fx.Lifecycle) (*tracesdk.TracerProvider, error) {
	if !conf.TracingEnabled {
		log.Info().Str("evt.name", "infra.tracing.disabled").Msg("tracing is disabled")
		return nil, nil
	}

	exporter, err := spanExporter(conf)
	if err != nil {
		return nil, errors.Wrapf(err, "infra: tracing: failed to create %s exporter", conf.TracingExporter)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(conf.TracingSampleRate))),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(observability.ServiceName),
			semconv.ServiceVersionKey.String(bininfo.Version),
			attribute.String("environment", conf.AppContext.Env.String()),
		)),
	)
	otel.SetTracerProvider(tp)

	log.Info().
		Str("evt.name", "infra.tracing.enabled").
		Str("exporter", conf.TracingExporter).
		Float64("sampleRate", conf.TracingSampleRate).
		Msg("tracing is enabled")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}

func spanExporter(conf *appconfig.Config) (tracesdk.SpanExporter, error) {
	switch conf.TracingExporter {
	case "jaeger":
		var opts []jaeger.CollectorEndpointOption
		if conf.TracingEndpoint != "" {
			opts = append(opts, jaeger.WithEndpoint(conf.TracingEndpoint))
		}
		return jaeger.New(jaeger.WithCollectorEndpoint(opts...))
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	default:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
		if conf.TracingEndpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(conf.TracingEndpoint))
		}
		return otlptracegrpc.New(context.Background(), opts...)
	}
}
