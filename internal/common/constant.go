// Package common contains constants and sentinel errors shared by the
// taxdesk client and server.
package common

// Header names used on the HTTP transport.
const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "
