// Package ports defines the interfaces between the expansion engine and the
// outside world: tree persistence, text generation and distributed locking.
// Adapters implement these interfaces; the engine depends only on this
// package, never on a concrete backend.
package ports
