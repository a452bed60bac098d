// Package httpserver exposes the engine over a small JSON HTTP API. It owns
// the mutex that serializes engine access; the engine itself is a
// single-caller resource.
package httpserver
