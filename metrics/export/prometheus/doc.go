// Package prometheus exposes engine metrics through
// github.com/prometheus/client_golang.
//
// [Exporter] is a prometheus.Collector that reads [tokenauth.Engine.MetricsSnapshot]
// on every scrape. Counter names are tokenauth_*_total and the latency
// histograms are tokenauth_issue_latency_seconds and
// tokenauth_authenticate_latency_seconds.
//
// Nothing is registered in the global registry. Use [Exporter.Handler] or
// register the exporter in a registry of your own.
package prometheus
