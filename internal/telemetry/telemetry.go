// Package telemetry wraps the global OpenTelemetry meter. Instruments are no-op
// until the process installs an SDK MeterProvider.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationPrefix = "github.com/Garsondee/map-awareness/internal/"

// Meter returns the global meter for an internal package.
func Meter(pkg string) metric.Meter {
	return otel.Meter(instrumentationPrefix + pkg)
}

// Counter creates an Int64Counter, falling back to a no-op instrument when the
// provider rejects the definition. Metrics never block the overlay from running.
func Counter(m metric.Meter, name, description string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
