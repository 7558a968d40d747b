// Package client implements the sync client runtime.
//
// It wires the local store, the duplex channel, connectivity probing, the
// event bus, the sync coordinator and the periodic sync job into a single
// process lifecycle.
package client
