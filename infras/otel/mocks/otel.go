// Package mocks provides an Otel backed by a no-op tracer for tests.
package mocks

import (
	"cowork/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

func NewOtel() otel.Otel {
	return otel.NewWithProvider(noop.NewTracerProvider())
}
