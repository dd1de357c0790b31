// Package observability bootstraps OpenTelemetry metrics for ssekit
// services. It wires an OTLP HTTP exporter behind a periodic reader and
// exposes Meter for component-level instruments; the SSE hub records
// subscriber and event counters through it.
package observability
