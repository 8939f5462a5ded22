// Package common contains shared constants and sentinel errors used across
// FoodBridge client components.
package common

// AuthorizationHeaderName is the HTTP header carrying the session token on
// outbound API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "

// DateLayout is the wire format of calendar dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"
