package track

// handler.go implements the server-side protocol envelope handler.
//
// The pipeline is a fixed sequence of stages:
//
//	ReceivedEnvelope -> Decrypted -> ParsedRequest -> ValidatedRequest ->
//	DataFetched -> ValidatedResponse -> Normalized -> Serialized ->
//	Encrypted -> Sent
//
// each stage either advances or produces a terminal Result with the mapped
// HTTP status and a small unencrypted {"error","timestamp"} body. No stage is
// retried server-side; retry policy belongs to the client role.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
)

// Result is the outcome of processing one inbound request: either an
// encrypted envelope (200) or an error body with its HTTP status.
type Result struct {
	StatusCode int
	Envelope   *Envelope
	ErrorBody  *ErrorBody
}

// Success reports whether the request produced an encrypted envelope.
func (r Result) Success() bool {
	return r.Envelope != nil
}

// Handler orchestrates the server-side pipeline. It holds only read-only
// state (codec, provider, logger) and is safe for concurrent use; each call
// to Process is self-contained.
type Handler struct {
	codec    *crypto.Codec
	provider DataProvider
	logger   *slog.Logger
}

// NewHandler creates the envelope handler. Pass a discard logger to turn
// stage logging off; decrypted plaintext is only ever logged at debug level.
func NewHandler(codec *crypto.Codec, provider DataProvider, logger *slog.Logger) (*Handler, error) {
	if codec == nil {
		return nil, errors.New("codec is required")
	}
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Handler{codec: codec, provider: provider, logger: logger}, nil
}

// Process runs the full pipeline over a raw inbound request body.
//
// It never returns an error: every failure is mapped into the Result so the
// server role adapter only has to bridge transport primitives.
func (h *Handler) Process(ctx context.Context, rawBody string) (result Result) {
	// catch-all: a panicking provider must not take the request down with an
	// empty reply
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("unexpected panic while processing request", slog.Any("panic", rec))
			result = failure(http.StatusInternalServerError, "An unexpected error occurred")
		}
	}()

	h.logger.Info("processing incoming status request")

	// Stage 1: parse the outer envelope
	envelope, err := UnmarshalEnvelope(rawBody)
	if err != nil || envelope.Data == "" {
		h.logger.Error("request does not contain encrypted data")
		return failure(http.StatusBadRequest, "Invalid request format")
	}

	// Stage 2: decrypt
	decrypted, err := h.codec.Decrypt(envelope.Data)
	if err != nil {
		h.logger.Error("decryption failed", slog.String("error", err.Error()))
		return failure(http.StatusBadRequest, "Failed to decrypt request")
	}
	h.logger.Debug("request decrypted", slog.String("plaintext", decrypted))

	// Stage 3: parse the inner request
	req, err := UnmarshalRequest(decrypted)
	if err != nil {
		h.logger.Error("failed to parse decrypted request", slog.String("error", err.Error()))
		return failure(http.StatusBadRequest, "Invalid request format")
	}

	// Stage 4: validate the request
	if validation := ValidateRequest(req); !validation.Valid() {
		h.logger.Error("request validation failed",
			slog.String("errors", strings.Join(validation.Errors, ", ")))
		return failure(http.StatusBadRequest, "Validation failed: "+strings.Join(validation.Errors, ", "))
	}

	h.logger.Info("request validated",
		slog.String("app_id", req.AppID),
		slog.String("service_id", req.ServiceID))

	// Stage 5: fetch the application record from the department's provider
	resp, err := h.provider.GetApplicationStatus(ctx, req.AppID, req.ServiceID, req.DeptName, req.Language)
	if err != nil {
		var trackErr *TrackError
		if errors.As(err, &trackErr) && trackErr.Code() == ErrCodeNotFound {
			h.logger.Info("application not found", slog.String("app_id", req.AppID))
			return failure(http.StatusNotFound, trackErr.Error())
		}
		h.logger.Error("data provider error", slog.String("error", err.Error()))
		return failure(http.StatusInternalServerError, "Internal server error")
	}

	// Stage 6: validate the response
	if validation := ValidateResponse(resp); !validation.Valid() {
		h.logger.Error("response validation failed",
			slog.String("errors", strings.Join(validation.Errors, ", ")))
		return failure(http.StatusInternalServerError, "Invalid response data")
	}

	// Stages 7-8: normalize and serialize
	responseJSON, err := MarshalResponse(resp)
	if err != nil {
		h.logger.Error("failed to serialize response", slog.String("error", err.Error()))
		return failure(http.StatusInternalServerError, "Invalid response data")
	}
	h.logger.Debug("response serialized", slog.String("plaintext", responseJSON))

	// Stage 9: encrypt
	encrypted, err := h.codec.Encrypt(responseJSON)
	if err != nil {
		h.logger.Error("encryption failed", slog.String("error", err.Error()))
		return failure(http.StatusInternalServerError, "Failed to encrypt response")
	}

	h.logger.Info("request processed successfully", slog.String("app_id", req.AppID))

	return Result{
		StatusCode: http.StatusOK,
		Envelope:   &Envelope{Data: encrypted},
	}
}

// failure builds a terminal Result with the standard error body.
func failure(statusCode int, message string) Result {
	return Result{
		StatusCode: statusCode,
		ErrorBody: &ErrorBody{
			Error:     message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
