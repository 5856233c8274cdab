// handlers provides the HTTP handlers for the department server:
// the encrypted status-exchange endpoint, the legacy push-authentication
// handshake and general infrastructure handlers (health, version etc)
package handlers
