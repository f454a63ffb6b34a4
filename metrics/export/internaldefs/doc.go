// Package internaldefs holds the exported metric names and bucket bounds for goNotes
// engine metrics, so every exporter renders the same series.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
