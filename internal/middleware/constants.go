// File: internal/middleware/constants.go
package middleware

// ContextKey is a private key type for request-scoped values.
type ContextKey string

// UserIDKey carries the authenticated user's ID through the request context.
const UserIDKey ContextKey = "userID"
