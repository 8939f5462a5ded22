// Package services contains the application services of the FoodBridge
// client: authentication and session, the user record and profile, the
// donation catalogue, and the device-local donation requests.
//
// Services depend on the client.Client API contract and on the local
// repositories; they never talk HTTP or SQL directly.
package services
