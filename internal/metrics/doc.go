// Package metrics provides lock-free counters and latency histograms for the auth engine.
//
// # Design
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically via [sync/atomic.AddUint64]. Histograms use 8 fixed buckets
// (≤5ms … +Inf) and exist only for password hashing and verification, the
// two operations whose cost is deliberate.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation. Export to Prometheus
// lives in metrics/export/ and reads Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import goNotes or any sibling package.
//   - Expose global metric registries.
package metrics
