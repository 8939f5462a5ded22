// Package cli provides the interactive FoodBridge command-line client.
//
// It wires configuration, local storage, the API client and the services,
// and runs a REPL that stands in for the mobile screens. Typical flow:
// restore the saved session (or show onboarding), start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout (online with offline fallback)
//   - Profile view and edit, avatar, account deletion
//   - Donation feed, own donations, publish / edit / remove
//   - Local donation requests and their status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
