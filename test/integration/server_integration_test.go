package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mahaseva-integrations/trackapi/internal/config"
	"github.com/mahaseva-integrations/trackapi/internal/crypto"
	"github.com/mahaseva-integrations/trackapi/internal/legacy"
	"github.com/mahaseva-integrations/trackapi/internal/logger"
	"github.com/mahaseva-integrations/trackapi/internal/provider/memory"
	"github.com/mahaseva-integrations/trackapi/internal/server"
	"github.com/mahaseva-integrations/trackapi/internal/track"
)

const (
	testEncryptionKey = "integration-test-key-24c"
	testEncryptionIV  = "iv8bytes"
	testChecksumKey   = "integration-checksum-key"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.ServerEnvironment{
		Environment:           "test",
		Host:                  "127.0.0.1",
		Port:                  8080,
		EnableLogging:         false,
		LogLevel:              "error",
		ServerShutdownTimeout: 5 * time.Second,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		IdleTimeout:           5 * time.Second,
		RateLimitRPS:          0,
		RateLimitBurst:        0,
		MaxRequestBytes:       1 << 20,
		EncryptionKey:         testEncryptionKey,
		EncryptionIV:          testEncryptionIV,
		ChecksumKey:           testChecksumKey,
		APIEndpoint:           track.DefaultAPIEndpoint,
	}

	provider := memory.NewProvider([]memory.Application{
		{
			ApplicationID:          "MH2025001234",
			ServiceID:              "SVC042",
			ServiceNameEN:          "Income Certificate",
			ServiceNameMR:          "उत्पन्न प्रमाणपत्र",
			ApplicantName:          "Ramesh Kulkarni",
			EstimatedDisbursalDays: 15,
			SubmissionDate:         "18-Sep-2025,17:30:00",
			PaymentDate:            "19-Sep-2025,09:12:45",
			FinalDecision:          "2",
			TotalDesks:             3,
			CurrentDesk:            2,
			NextDesk:               3,
			Desks: []track.DeskDetail{
				{DeskNumber: "Desk 1", ReviewActionBy: "Clerk A", ReviewActionDateTime: "20-Sep-2025,11:00:00", ReviewActionDetails: "Documents verified"},
			},
		},
	})

	srv, err := server.NewServer(cfg, provider, nil, logger.NewDiscardLogger())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, baseURL string) *track.Client {
	t.Helper()

	client, err := track.NewClient(track.ClientConfig{
		BaseURL:        baseURL,
		EncryptionKey:  testEncryptionKey,
		EncryptionIV:   testEncryptionIV,
		DepartmentName: "Revenue",
		MaxRetries:     0,
		Logger:         logger.NewDiscardLogger(),
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestStatusExchangeRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts.URL)

	resp, err := client.FetchStatus(context.Background(), "MH2025001234", "SVC042")
	if err != nil {
		t.Fatalf("FetchStatus failed: %v", err)
	}

	if resp.ApplicationID != "MH2025001234" {
		t.Errorf("ApplicationID = %q, want MH2025001234", resp.ApplicationID)
	}
	if resp.ServiceName != "Income Certificate" {
		t.Errorf("ServiceName = %q, want English name", resp.ServiceName)
	}
	if !resp.IsPaid() {
		t.Error("expected IsPaid to be true")
	}
	if resp.Decision() != track.DecisionPending {
		t.Errorf("Decision = %q, want pending", resp.Decision())
	}
}

func TestStatusExchangeMarathi(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts.URL)

	resp, err := client.FetchStatusWithLanguage(context.Background(), "MH2025001234", "SVC042", track.LanguageMarathi)
	if err != nil {
		t.Fatalf("FetchStatusWithLanguage failed: %v", err)
	}

	if resp.ServiceName != "उत्पन्न प्रमाणपत्र" {
		t.Errorf("ServiceName = %q, want Marathi name", resp.ServiceName)
	}
}

func TestStatusExchangeNotFound(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts.URL)

	_, err := client.FetchStatus(context.Background(), "NO-SUCH-APP", "SVC042")
	if err == nil {
		t.Fatal("expected an error for an unknown application")
	}

	var trackErr *track.TrackError
	if !errors.As(err, &trackErr) {
		t.Fatalf("error type = %T, want *track.TrackError", err)
	}
	if trackErr.StatusCode() != http.StatusNotFound {
		t.Errorf("status = %d, want 404", trackErr.StatusCode())
	}
	if !strings.Contains(trackErr.ResponseBody(), "Application not found") {
		t.Errorf("body = %q, want it to contain the not-found message", trackErr.ResponseBody())
	}
}

func TestStatusExchangeRejectsGarbage(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "not json",
			body:       "this is not json",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "missing data property",
			body:       `{"payload":"AABB"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "undecryptable data",
			body:       `{"data":"ZZZZ-not-hex"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Failed to decrypt request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/"+track.DefaultAPIEndpoint, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var errBody track.ErrorBody
			if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if errBody.Error != tt.wantError {
				t.Errorf("error = %q, want %q", errBody.Error, tt.wantError)
			}
			if errBody.Timestamp == "" {
				t.Error("error body is missing the timestamp")
			}
		})
	}
}

func TestPushAuthHandshake(t *testing.T) {
	ts := newTestServer(t)

	codec, err := crypto.NewCodec(testEncryptionKey, testEncryptionIV)
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}

	sealed := legacy.SealPushToken(&legacy.PushToken{
		UserID:             "user001",
		TimeStamp:          "20251118173000",
		SessionID:          "sess-abc",
		AuthorizationToken: "auth-token",
	}, testChecksumKey)

	encrypted, err := codec.Encrypt(sealed.Encode())
	if err != nil {
		t.Fatalf("failed to encrypt token: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/legacy/pushauth?token=" + encrypted)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var body struct {
			Status string `json:"status"`
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body.Status != "authenticated" {
			t.Errorf("status = %q, want authenticated", body.Status)
		}
		if body.UserID != "user001" {
			t.Errorf("userId = %q, want user001", body.UserID)
		}
	})

	t.Run("forged checksum", func(t *testing.T) {
		forged := *sealed
		forged.ClientChecksum = "12345"
		encryptedForged, err := codec.Encrypt(forged.Encode())
		if err != nil {
			t.Fatalf("failed to encrypt forged token: %v", err)
		}

		resp, err := http.Get(ts.URL + "/legacy/pushauth?token=" + encryptedForged)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/legacy/pushauth")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestInfrastructureEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("liveness", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health/live")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("readiness without backing store", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health/ready")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("version", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/version")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestRequestSizeLimit(t *testing.T) {
	ts := newTestServer(t)

	oversized := strings.Repeat("A", (1<<20)+1)
	resp, err := http.Post(ts.URL+"/"+track.DefaultAPIEndpoint, "application/json", strings.NewReader(oversized))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
	if resp.Header.Get("X-Max-Request-Size") == "" {
		t.Error("X-Max-Request-Size header is missing")
	}
}
