// Package server provides the department-side HTTP server.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// The package includes the handlers for
//   - the encrypted status-exchange endpoint served to the portal
//   - the legacy push-authentication handshake
//   - common infrastructure handlers (health, readiness, version)
//
// middleware is in internal/server/middleware
package server
