// Package serverrun wires configuration, the engine, and the HTTP server
// into a blocking single-node run loop.
package serverrun
