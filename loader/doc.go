// Package loader implements the shared load-once machinery vendor adapters
// build on: idempotent script injection, the settle-once readiness latch, and
// the process-wide ready-hook slot table.
package loader
