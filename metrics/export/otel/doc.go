// Package otel publishes goNotes engine metrics as OpenTelemetry observable instruments.
//
// [NewExporter] registers one Int64ObservableCounter per engine counter, one
// Int64ObservableGauge per KDF histogram carrying an "le" attribute per bucket, and a
// gonotes_audit_events_total counter split by "outcome". A single callback reads the
// engine snapshot on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
