package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mahaseva-integrations/trackapi/internal/logger"
	"github.com/mahaseva-integrations/trackapi/internal/track"
)

// HandleStatusExchange godoc
//
//	@Summary		Encrypted application status exchange
//	@Description	Accepts an encrypted status request envelope from the portal and returns an encrypted status response envelope.
//	@Tags			Track
//	@Accept			json
//	@Produce		json
//	@Param			envelope	body		track.Envelope	true	"Encrypted request envelope"
//	@Success		200			{object}	track.Envelope	"Encrypted response envelope"
//	@Failure		400			{object}	track.ErrorBody	"Malformed, undecryptable or invalid request"
//	@Failure		404			{object}	track.ErrorBody	"Application not found"
//	@Failure		500			{object}	track.ErrorBody	"Processing failure"
//	@Router			/api/SampleAPI/sendappstatus_encrypted [post]
func HandleStatusExchange(handler *track.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		body, err := io.ReadAll(r.Body)
		if err != nil {
			// a body that blows the MaxBytesReader cap surfaces here when the
			// client did not send a Content-Length header
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				track.RespondWithErrorBody(w, http.StatusRequestEntityTooLarge,
					"Request body exceeds the maximum allowed size")
				return
			}
			reqLogger.Error("failed to read request body", slog.String("error", err.Error()))
			track.RespondWithErrorBody(w, http.StatusBadRequest, "Invalid request format")
			return
		}

		result := handler.Process(r.Context(), string(body))

		logger.ContextWithLogAttrs(r.Context(),
			slog.Bool("envelope_success", result.Success()),
		)

		track.WriteResult(w, result)
	}
}
