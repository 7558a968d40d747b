package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySubject is returned when a valid token carries no agent id.
var ErrEmptySubject = errors.New("empty subject error")

// GenerateIdentityToken creates a signed HMAC-SHA256 JWT identifying an agent.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the agent id
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Example usage:
//
//	token, err := utils.GenerateIdentityToken("call-relay", "agent-42", time.Hour, "secret")
func GenerateIdentityToken(issuer, agentID string, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || agentID == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   agentID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return tokenString, nil
}

// ValidateIdentityToken verifies an identity token and returns its agent id.
//
// Validation includes:
//   - Signature verification using the provided sign key (HS256 only)
//   - Issuer (iss) claim check when tokenIssuer is not empty
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence
func ValidateIdentityToken(tokenString, tokenSignKey, tokenIssuer string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if tokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(tokenIssuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	agentID, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if agentID == "" {
		return "", ErrEmptySubject
	}

	return agentID, nil
}

// ParseBearerToken extracts the token of an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// AgentIDFromIdentity returns the subject of identity when it is a JWT, read
// without verification, and identity itself otherwise. It is meant for
// logging and session naming, never for access decisions.
func AgentIDFromIdentity(identity string) string {
	if strings.Count(identity, ".") != 2 {
		return identity
	}

	token, _, err := jwt.NewParser().ParseUnverified(identity, jwt.MapClaims{})
	if err != nil {
		return identity
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return identity
	}
	return sub
}
