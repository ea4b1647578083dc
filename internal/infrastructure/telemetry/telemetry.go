// Package telemetry wires OpenTelemetry tracing, metrics and log export plus
// optional Pyroscope profiling. Every provider degrades to a no-op when its
// switch in config.TelemetryConfig is off.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported resource. Overridden at build time.
var ServiceVersion = "dev"

// Telemetry holds the providers started for the process
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts the providers enabled in cfg. On error, already started
// providers are shut down before returning.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{}
	var err error

	t.Tracer, err = NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	t.Meter, err = NewMeterProvider(ctx, cfg, logger)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	t.Logs, err = NewLoggerProvider(ctx, cfg, logger)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	t.Profiler, err = NewProfiler(cfg, logger)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Profiler.IsEnabled() {
		if err := t.Tracer.EnableSpanProfiles(); err != nil {
			logger.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	return t, nil
}

// Shutdown flushes and stops every provider, collecting all errors
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
