// Package server runs the relay's HTTP transport.
//
// It owns the listener lifecycle, including startup, signal handling and
// graceful shutdown.
package server
