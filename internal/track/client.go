package track

// client.go implements the portal-side client role: build, validate, encrypt
// and POST a status inquiry, then decrypt and parse the answer.
//
// Retry policy: only transport-level failures are retried, with a linearly
// increasing delay (RetryDelay * attempt). Local validation failures, cipher
// failures, structured API error responses and caller cancellation are
// terminal immediately.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
)

// DefaultAPIEndpoint is the path the deployed portal exposes for encrypted
// status inquiries.
const DefaultAPIEndpoint = "api/SampleAPI/sendappstatus_encrypted"

// Client role defaults, matching the deployed counterpart's SDK.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
)

// ClientConfig configures a protocol client. BaseURL, EncryptionKey,
// EncryptionIV and DepartmentName are required; the rest default sensibly.
type ClientConfig struct {
	// BaseURL of the counterpart, e.g. https://api.revenue.example.gov.in
	BaseURL string

	// APIEndpoint is the status inquiry path, DefaultAPIEndpoint if empty.
	APIEndpoint string

	EncryptionKey string
	EncryptionIV  string

	// DepartmentName is sent as DeptName on every request.
	DepartmentName string

	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int

	// RetryDelay is the base delay; attempt n waits RetryDelay * n.
	RetryDelay time.Duration

	// Logger for request lifecycle logging; a discard logger disables it.
	Logger *slog.Logger
}

// Client issues status inquiries against a counterpart implementing the
// server role. Safe for concurrent use.
type Client struct {
	cfg        ClientConfig
	codec      *crypto.Codec
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the configuration and builds the client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}
	if cfg.DepartmentName == "" {
		return nil, errors.New("DepartmentName is required")
	}

	codec, err := crypto.NewCodec(cfg.EncryptionKey, cfg.EncryptionIV)
	if err != nil {
		return nil, err
	}

	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = DefaultAPIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:        cfg,
		codec:      codec,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// FetchStatus looks up an application by ID and service code in English.
func (c *Client) FetchStatus(ctx context.Context, applicationID string, serviceID string) (*StatusResponse, error) {
	return c.FetchStatusWithLanguage(ctx, applicationID, serviceID, LanguageEnglish)
}

// FetchStatusWithLanguage looks up an application with an explicit response
// language.
func (c *Client) FetchStatusWithLanguage(ctx context.Context, applicationID string, serviceID string, language string) (*StatusResponse, error) {
	return c.FetchStatusRequest(ctx, &StatusRequest{
		AppID:     applicationID,
		ServiceID: serviceID,
		DeptName:  c.cfg.DepartmentName,
		Language:  language,
	})
}

// FetchStatusRequest issues a fully specified status inquiry.
func (c *Client) FetchStatusRequest(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	// fail fast: no network call on invalid input, and no retry
	if validation := ValidateRequest(req); !validation.Valid() {
		return nil, NewValidationError("request validation failed", validation.Errors)
	}

	c.logger.Info("requesting application status", slog.String("app_id", req.AppID))

	payload, err := c.buildEnvelopeBody(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		resp, err := c.postEnvelope(ctx, payload)
		if err == nil {
			c.logger.Info("status retrieved", slog.String("app_id", req.AppID))
			return resp, nil
		}

		// caller cancellation is terminal, not a transport failure
		if ctx.Err() != nil {
			return nil, WrapProtocolError(ctx.Err(), "request aborted by caller")
		}

		var trackErr *TrackError
		if errors.As(err, &trackErr) && trackErr.Code() == ErrCodeTransport {
			lastErr = err
			c.logger.Warn("transport failure",
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()))
		} else {
			// cipher, format and API errors are terminal immediately
			return nil, err
		}

		if attempt < c.cfg.MaxRetries {
			delay := c.cfg.RetryDelay * time.Duration(attempt+1)
			c.logger.Info("retrying", slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, WrapProtocolError(ctx.Err(), "request aborted by caller")
			}
		}
	}

	return nil, WrapProtocolError(lastErr, fmt.Sprintf("request failed after %d attempts", c.cfg.MaxRetries+1))
}

// buildEnvelopeBody serializes, encrypts and wraps the request.
func (c *Client) buildEnvelopeBody(req *StatusRequest) ([]byte, error) {
	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, WrapFormatError(err, "failed to serialize status request")
	}

	encrypted, err := c.codec.Encrypt(string(requestJSON))
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(&Envelope{Data: encrypted})
	if err != nil {
		return nil, WrapFormatError(err, "failed to serialize envelope")
	}
	return body, nil
}

// postEnvelope performs one HTTP attempt and decodes the answer.
func (c *Client) postEnvelope(ctx context.Context, payload []byte) (*StatusResponse, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(c.cfg.APIEndpoint, "/")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, WrapFormatError(err, "failed to build HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("User-Agent", "trackapi-go/1.0")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, WrapTransportError(err, "HTTP request failed")
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, WrapTransportError(err, "failed to read response body")
	}
	responseContent := string(bodyBytes)

	// a decoded non-200 answer is a structured API error: terminal, no retry
	if httpResp.StatusCode != http.StatusOK {
		return nil, NewAPIError(
			fmt.Sprintf("API returned error status %d", httpResp.StatusCode),
			httpResp.StatusCode,
			responseContent,
		)
	}

	envelope, err := UnmarshalEnvelope(responseContent)
	if err != nil || envelope.Data == "" {
		return nil, NewAPIError("response does not contain encrypted data", httpResp.StatusCode, responseContent)
	}

	decrypted, err := c.codec.Decrypt(envelope.Data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("response decrypted", slog.String("plaintext", decrypted))

	return UnmarshalResponse(decrypted)
}

// PushStatusUpdate submits a sealed legacy pipe-delimited payload (see the
// legacy package) to the portal's status-push endpoint as an encrypted
// envelope. The same retry policy as FetchStatus applies.
func (c *Client) PushStatusUpdate(ctx context.Context, endpoint string, sealedPayload string) error {
	encrypted, err := c.codec.Encrypt(sealedPayload)
	if err != nil {
		return err
	}

	body, err := json.Marshal(&Envelope{Data: encrypted})
	if err != nil {
		return WrapFormatError(err, "failed to serialize envelope")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return WrapFormatError(err, "failed to build HTTP request")
		}
		httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
		httpReq.Header.Set("User-Agent", "trackapi-go/1.0")

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return WrapProtocolError(ctx.Err(), "request aborted by caller")
			}
			lastErr = WrapTransportError(err, "HTTP request failed")
		} else {
			respBody, _ := io.ReadAll(httpResp.Body)
			httpResp.Body.Close()
			if httpResp.StatusCode == http.StatusOK {
				return nil
			}
			return NewAPIError(
				fmt.Sprintf("API returned error status %d", httpResp.StatusCode),
				httpResp.StatusCode,
				string(respBody),
			)
		}

		if attempt < c.cfg.MaxRetries {
			select {
			case <-time.After(c.cfg.RetryDelay * time.Duration(attempt+1)):
			case <-ctx.Done():
				return WrapProtocolError(ctx.Err(), "request aborted by caller")
			}
		}
	}

	return WrapProtocolError(lastErr, fmt.Sprintf("request failed after %d attempts", c.cfg.MaxRetries+1))
}
