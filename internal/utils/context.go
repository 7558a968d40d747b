// Package utils provides general-purpose helpers used across the sync
// client and the relay: context keys, JSON response writing, the resty
// client wrapper, identity tokens and UUID generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AgentIDCtxKey is the key under which the relay stores the authenticated
// agent id of a REST request.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.AgentIDCtxKey, "agent-42")
var AgentIDCtxKey = contextKey("agentID")

// GetAgentIDFromContext retrieves the agent id from the context.
//
// Returns the agent id and an ok flag:
//   - ok == true: value is found, is a string and is not empty
//   - ok == false: value is missing or has an unexpected type
func GetAgentIDFromContext(ctx context.Context) (string, bool) {
	agentID, ok := ctx.Value(AgentIDCtxKey).(string)
	return agentID, ok && agentID != ""
}
