package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"

	"jobproof/lib/configutil"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type otlpConfig struct {
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

type config struct {
	Otlp otlpConfig `json:"otlp"`
}

// InitSlog installs the default logger for CLI use.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// Setup wires an OTLP trace exporter from a telemetry.json5 found by walking
// up from the cwd. Absent config is not an error: spans stay no-ops and the
// returned shutdown does nothing.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if os.IsNotExist(err) || (err == nil && cfg.Otlp.HttpEndpoint == "") {
		return func(context.Context) error { return nil }, nil
	}
	if err != nil {
		return nil, err
	}

	exportCtx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	exporter, err := otlptracehttp.New(
		exportCtx,
		otlptracehttp.WithEndpointURL(cfg.Otlp.HttpEndpoint),
		otlptracehttp.WithHeaders(cfg.Otlp.Headers),
	)
	if err != nil {
		return nil, err
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	)
	otel.SetTracerProvider(provider)
	slog.Info("tracer export initialized", "endpoint", cfg.Otlp.HttpEndpoint)

	return provider.Shutdown, nil
}
