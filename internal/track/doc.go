// track implements the Track Application Status protocol core shared by the
// portal (client role) and the department backends (server role).
//
// **wire model**
// the canonical request/response shapes are in types.go. Field names on the
// wire are PascalCase and case-sensitive; every optional field is carried as
// an empty string, never as a JSON null or an absent key (see normalize.go).
// Date fields use the fixed DD-MMM-YYYY,HH:mm:ss pattern.
//
// **envelope handler**
// Handler.Process runs the server-side pipeline: parse the outer envelope,
// decrypt, parse and validate the inner request, call the department's
// DataProvider, validate and normalize the response, serialize, encrypt and
// wrap. The pipeline is strictly sequential within a request and carries no
// state across requests, so concurrent requests need no coordination.
//
// **error handling**
// every failure is a tagged *TrackError (or a *crypto.CryptoError from the
// codec); the handler inspects error codes explicitly to pick the HTTP status
// and client-facing message - there is no exception-style control flow.
// Failure bodies are small unencrypted JSON objects {"error","timestamp"}.
//
// **client role**
// Client.FetchStatus performs the outbound flow with retry on transport
// failures only: validation failures, cipher failures, structured API error
// responses and caller cancellation are always terminal.
package track
