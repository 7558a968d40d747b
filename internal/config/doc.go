// Package config loads, merges and validates the configuration of the sync
// client and the reference relay.
//
// Configuration is assembled from several sources; for every field the first
// source that sets a non-zero value wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Defaults are applied afterwards. The entry points are [GetClientConfig] and
// [GetRelayConfig].
package config
