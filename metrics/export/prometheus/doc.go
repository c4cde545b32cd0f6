// Package prometheus provides Prometheus collectors for goRelay metrics.
//
// [NewPrometheusExporter] accepts a [goRelay.Engine] and exposes an [http.Handler]
// that renders all goRelay counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gorelay_*_total; the histograms are
// gorelay_authorize_latency_seconds and gorelay_send_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
