// Package otel provides OpenTelemetry metric exporter bindings for goRelay counters and
// histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each goRelay metric
// and Int64ObservableGauge per histogram bucket. A single callback reads
// [goRelay.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate engine state.
package otel
