// Package prometheus exposes goNotes engine metrics through prometheus/client_golang.
//
// [NewCollector] wraps an [goNotes.Engine] as a [prometheus.Collector]. Counter names are
// gonotes_*_total; the KDF histograms are gonotes_password_hash_seconds and
// gonotes_password_verify_seconds.
//
// # What this package must NOT do
//
//   - Register into the global Prometheus registry; callers pick the registry or mount Handler.
//   - Mutate engine state.
package prometheus
