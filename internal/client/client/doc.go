// Package client contains the client-side building blocks for FoodBridge.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     FoodBridge REST API: login, registration, profile update/delete, the
//     complete profile, donation CRUD and a connectivity probe.
//  2. A concrete HTTP implementation (see HTTPClient) with one configured
//     *http.Client: base URL, fixed timeout, a bearer-token transport that
//     reads the token from local storage on every request, and debug logging
//     of requests in development builds. There is no retry policy.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are reported as *APIError values that wrap a sentinel, so callers
// can use errors.Is with ErrUnavailable, ErrUnauthorized, ErrNotFound,
// ErrConflict, ErrServer or ErrRequest, and errors.As to read the status
// code and server message. Classify turns any error into a short message
// for the user.
package client
