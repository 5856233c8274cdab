package track

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
	"github.com/mahaseva-integrations/trackapi/internal/logger"
)

func newClientForServer(t *testing.T, serverURL string, maxRetries int) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{
		BaseURL:        serverURL,
		EncryptionKey:  testKey,
		EncryptionIV:   testIV,
		DepartmentName: "Revenue",
		MaxRetries:     maxRetries,
		RetryDelay:     time.Millisecond,
		Logger:         logger.NewDiscardLogger(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// serveStatus is a minimal server-role implementation: decrypt the inbound
// envelope and answer with an encrypted copy of resp.
func serveStatus(t *testing.T, codec *crypto.Codec, resp *StatusResponse) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}

		envelope, err := UnmarshalEnvelope(string(body))
		if err != nil {
			t.Errorf("request is not an envelope: %v", err)
		}
		decrypted, err := codec.Decrypt(envelope.Data)
		if err != nil {
			t.Errorf("failed to decrypt request: %v", err)
		}

		req, err := UnmarshalRequest(decrypted)
		if err != nil {
			t.Errorf("failed to parse request: %v", err)
		}
		if req.DeptName != "Revenue" {
			t.Errorf("DeptName = %q, want Revenue", req.DeptName)
		}

		responseJSON, err := MarshalResponse(resp)
		if err != nil {
			t.Errorf("failed to marshal response: %v", err)
		}
		encrypted, err := codec.Encrypt(responseJSON)
		if err != nil {
			t.Errorf("failed to encrypt response: %v", err)
		}
		RespondWithJSONPayload(w, http.StatusOK, &Envelope{Data: encrypted})
	}
}

func TestClientFetchStatus(t *testing.T) {
	codec := newTestCodec(t)
	want := validResponse()

	ts := httptest.NewServer(serveStatus(t, codec, want))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 0)

	got, err := client.FetchStatus(context.Background(), "MH2025001234", "SVC042")
	if err != nil {
		t.Fatalf("FetchStatus failed: %v", err)
	}
	if got.ApplicationID != want.ApplicationID {
		t.Errorf("ApplicationID = %q, want %q", got.ApplicationID, want.ApplicationID)
	}
	if got.ServiceName != want.ServiceName {
		t.Errorf("ServiceName = %q, want %q", got.ServiceName, want.ServiceName)
	}
}

func TestClientValidatesBeforeSending(t *testing.T) {
	var called atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 3)

	_, err := client.FetchStatus(context.Background(), "", "SVC042")
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) || trackErr.Code() != ErrCodeValidation {
		t.Fatalf("error = %v, want a validation error", err)
	}
	if !containsError(trackErr.Violations(), "AppID is required") {
		t.Errorf("violations = %v, want AppID violation", trackErr.Violations())
	}
	if called.Load() {
		t.Error("no HTTP request must be made for an invalid inquiry")
	}
}

func TestClientRetriesTransportFailures(t *testing.T) {
	codec := newTestCodec(t)
	want := validResponse()

	var attempts atomic.Int32
	handler := serveStatus(t, codec, want)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// drop the first two connections mid-flight to force transport errors
		if attempts.Add(1) <= 2 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack failed: %v", err)
			}
			conn.Close()
			return
		}
		handler(w, r)
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 3)

	got, err := client.FetchStatus(context.Background(), "MH2025001234", "SVC042")
	if err != nil {
		t.Fatalf("FetchStatus failed after retries: %v", err)
	}
	if got.ApplicationID != want.ApplicationID {
		t.Errorf("ApplicationID = %q, want %q", got.ApplicationID, want.ApplicationID)
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}

func TestClientDoesNotRetryAPIErrors(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		RespondWithErrorBody(w, http.StatusNotFound, "Application not found")
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 3)

	_, err := client.FetchStatus(context.Background(), "MH2025001234", "SVC042")
	if err == nil {
		t.Fatal("expected an API error")
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) || trackErr.Code() != ErrCodeAPI {
		t.Fatalf("error = %v, want an API error", err)
	}
	if trackErr.StatusCode() != http.StatusNotFound {
		t.Errorf("status = %d, want 404", trackErr.StatusCode())
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1 (API errors are terminal)", attempts.Load())
	}
}

func TestClientExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		hj := w.(http.Hijacker)
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("hijack failed: %v", err)
		}
		conn.Close()
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 2)

	_, err := client.FetchStatus(context.Background(), "MH2025001234", "SVC042")
	if err == nil {
		t.Fatal("expected exhaustion after retries")
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) || trackErr.Code() != ErrCodeProtocol {
		t.Fatalf("error = %v, want a protocol error", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", attempts.Load())
	}
}

func TestClientHonorsCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.FetchStatus(ctx, "MH2025001234", "SVC042")
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancellation took %v, want prompt abort", elapsed)
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) || trackErr.Code() != ErrCodeProtocol {
		t.Fatalf("error = %v, want a protocol error", err)
	}
}

func TestClientRejectsMissingData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSONPayload(w, http.StatusOK, map[string]string{"payload": "AABB"})
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 0)

	_, err := client.FetchStatus(context.Background(), "MH2025001234", "SVC042")
	if err == nil {
		t.Fatal("expected an error for a response without encrypted data")
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) || trackErr.Code() != ErrCodeAPI {
		t.Fatalf("error = %v, want an API error", err)
	}
}

func TestClientPushStatusUpdate(t *testing.T) {
	codec := newTestCodec(t)

	var received string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var envelope Envelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Errorf("request is not an envelope: %v", err)
		}
		decrypted, err := codec.Decrypt(envelope.Data)
		if err != nil {
			t.Errorf("failed to decrypt push payload: %v", err)
		}
		received = decrypted
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := newClientForServer(t, ts.URL, 0)

	if err := client.PushStatusUpdate(context.Background(), "api/pull/updatestatus", "a|b|c"); err != nil {
		t.Fatalf("PushStatusUpdate failed: %v", err)
	}
	if received != "a|b|c" {
		t.Errorf("received payload = %q, want a|b|c", received)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(ClientConfig{
		BaseURL:        "http://example.invalid",
		EncryptionKey:  testKey,
		EncryptionIV:   testIV,
		DepartmentName: "Revenue",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.cfg.APIEndpoint != DefaultAPIEndpoint {
		t.Errorf("APIEndpoint = %q, want default", client.cfg.APIEndpoint)
	}
	if client.cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.cfg.Timeout, DefaultTimeout)
	}
	if client.cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %v, want %v", client.cfg.RetryDelay, DefaultRetryDelay)
	}
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	if _, err := NewClient(ClientConfig{EncryptionKey: testKey, EncryptionIV: testIV, DepartmentName: "Revenue"}); err == nil {
		t.Error("expected an error for a missing BaseURL")
	}
	if _, err := NewClient(ClientConfig{BaseURL: "http://example.invalid", EncryptionKey: testKey, EncryptionIV: testIV}); err == nil {
		t.Error("expected an error for a missing DepartmentName")
	}
	if _, err := NewClient(ClientConfig{BaseURL: "http://example.invalid", EncryptionKey: "short", EncryptionIV: testIV, DepartmentName: "Revenue"}); err == nil {
		t.Error("expected an error for a short key")
	}
}
