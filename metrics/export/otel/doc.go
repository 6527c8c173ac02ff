// Package otel binds engine metrics to an OpenTelemetry meter.
//
// [NewExporter] registers one observable instrument per counter and per
// histogram bucket, and a single callback reads
// [tokenauth.Engine.MetricsSnapshot] on each collection. The caller owns the
// MeterProvider.
package otel
