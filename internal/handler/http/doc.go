// Package http is the HTTP surface of the relay.
//
// It upgrades /ws to the duplex event channel served by [relay.Hub], exposes
// /health for connectivity probing and serves GET /api/{resource} as the REST
// catch-up path used by the client when the channel is unavailable. Request
// tracing, access logging and optional bearer authentication are handled here
// before requests reach the hub.
package http
