package track

// responses.go provides helper functions for sending HTTP responses from the
// server role adapter and the middleware.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// RespondWithJSONPayload sends a JSON response with the given status code.
func RespondWithJSONPayload(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// If encoding fails, log it but don't try to send another response
			// (headers are already written)
			slog.Error("Failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}

// RespondWithErrorBody sends the protocol's unencrypted failure body
// {"error","timestamp"} with the given status code. Used by middleware for
// failures that occur before the envelope handler runs.
func RespondWithErrorBody(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSONPayload(w, statusCode, &ErrorBody{
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteResult bridges a pipeline Result onto the HTTP response.
func WriteResult(w http.ResponseWriter, result Result) {
	if result.Success() {
		RespondWithJSONPayload(w, result.StatusCode, result.Envelope)
		return
	}
	RespondWithJSONPayload(w, result.StatusCode, result.ErrorBody)
}
