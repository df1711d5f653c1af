// Package temporal dials the Temporal cluster used for durable homepage
// publication.
package temporal

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ErrDisabled is returned by Dial when Temporal is switched off.
var ErrDisabled = errors.New("temporal disabled via TEMPORAL_DISABLED")

type Settings struct {
	Address   string
	Namespace string
	Disabled  bool
}

// Dial connects a client that traces through tracer and logs through logger.
// Empty settings fall back to the SDK defaults.
func Dial(settings Settings, logger *slog.Logger, tracer trace.Tracer) (client.Client, error) {
	if settings.Disabled {
		return nil, ErrDisabled
	}
	if settings.Address == "" {
		settings.Address = client.DefaultHostPort
	}
	if settings.Namespace == "" {
		settings.Namespace = client.DefaultNamespace
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	options := client.Options{
		HostPort:  settings.Address,
		Namespace: settings.Namespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
