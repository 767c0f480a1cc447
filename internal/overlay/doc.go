// Package overlay injects feedback highlights into a student response.
//
// Render locates every literal occurrence of each annotation's text, resolves
// overlapping claims longest-first, and returns an immutable Marked value that
// can be emitted as escaped HTML. The package performs no I/O.
package overlay
