package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
	"github.com/mahaseva-integrations/trackapi/internal/legacy"
	"github.com/mahaseva-integrations/trackapi/internal/logger"
	"github.com/mahaseva-integrations/trackapi/internal/track"
)

// PushAuthResponse acknowledges a verified portal handshake.
type PushAuthResponse struct {
	Status    string `json:"status" example:"authenticated"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// HandlePushAuth godoc
//
//	@Summary		Legacy portal push-authentication handshake
//	@Description	Verifies an encrypted pipe-delimited token passed on the query string. The token carries a CRC-32 checksum computed with the shared checksum key.
//	@Tags			Legacy
//	@Produce		json
//	@Param			token	query		string			true	"Encrypted authentication token (hex)"
//	@Success		200		{object}	PushAuthResponse
//	@Failure		401		{object}	track.ErrorBody	"Missing, undecryptable, malformed or forged token"
//	@Router			/legacy/pushauth [get]
func HandlePushAuth(codec *crypto.Codec, checksumKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logger.ContextRequestLogger(r.Context())

		encrypted := r.URL.Query().Get("token")
		if encrypted == "" {
			track.RespondWithErrorBody(w, http.StatusUnauthorized, "Missing authentication token")
			return
		}

		decrypted, err := codec.Decrypt(encrypted)
		if err != nil {
			reqLogger.Warn("push auth token decryption failed", slog.String("error", err.Error()))
			track.RespondWithErrorBody(w, http.StatusUnauthorized, "Invalid authentication token")
			return
		}

		token, err := legacy.ParsePushToken(decrypted)
		if err != nil {
			reqLogger.Warn("push auth token malformed", slog.String("error", err.Error()))
			track.RespondWithErrorBody(w, http.StatusUnauthorized, "Invalid authentication token")
			return
		}

		if err := token.Verify(checksumKey); err != nil {
			// a checksum mismatch on a decryptable token is a forgery signal,
			// not a transport glitch
			reqLogger.Warn("push auth checksum mismatch",
				slog.String("user_id", token.UserID),
				slog.String("session_id", token.SessionID),
			)
			track.RespondWithErrorBody(w, http.StatusUnauthorized, "Authentication failed")
			return
		}

		reqLogger.Info("push auth verified",
			slog.String("user_id", token.UserID),
			slog.String("session_id", token.SessionID),
		)

		track.RespondWithJSONPayload(w, http.StatusOK, &PushAuthResponse{
			Status:    "authenticated",
			UserID:    token.UserID,
			SessionID: token.SessionID,
		})
	}
}
