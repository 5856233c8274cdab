package track

import (
	"strings"
	"testing"
)

func validRequest() *StatusRequest {
	return &StatusRequest{
		AppID:     "MH2025001234",
		ServiceID: "SVC042",
		DeptName:  "Revenue",
		Language:  LanguageEnglish,
	}
}

func validResponse() *StatusResponse {
	return &StatusResponse{
		ApplicationID:             "MH2025001234",
		ServiceName:               "Income Certificate",
		ApplicantName:             "Ramesh Kulkarni",
		EstimatedDisbursalDays:    15,
		ApplicationSubmissionDate: "18-Sep-2025,17:30:00",
		FinalDecision:             "2",
		TotalNumberOfDesks:        3,
		CurrentDeskNumber:         2,
		NextDeskNumber:            3,
		DeskDetails: []DeskDetail{
			{DeskNumber: "Desk 1", ReviewActionBy: "Clerk A", ReviewActionDateTime: "20-Sep-2025,11:00:00"},
			{DeskNumber: "Desk 2"},
		},
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*StatusRequest)
		wantValid bool
		wantError string
	}{
		{
			name:      "valid request",
			mutate:    func(r *StatusRequest) {},
			wantValid: true,
		},
		{
			name:      "missing app id",
			mutate:    func(r *StatusRequest) { r.AppID = "" },
			wantError: "AppID is required",
		},
		{
			name:      "whitespace app id",
			mutate:    func(r *StatusRequest) { r.AppID = "   " },
			wantError: "AppID is required",
		},
		{
			name:      "missing service id",
			mutate:    func(r *StatusRequest) { r.ServiceID = "" },
			wantError: "ServiceID is required",
		},
		{
			name:      "missing department",
			mutate:    func(r *StatusRequest) { r.DeptName = "" },
			wantError: "DeptName is required",
		},
		{
			name:      "missing language",
			mutate:    func(r *StatusRequest) { r.Language = "" },
			wantError: "Language is required",
		},
		{
			name:      "unsupported language",
			mutate:    func(r *StatusRequest) { r.Language = "HI" },
			wantError: "Language must be 'EN' or 'MR'",
		},
		{
			name:      "lowercase language rejected",
			mutate:    func(r *StatusRequest) { r.Language = "en" },
			wantError: "Language must be 'EN' or 'MR'",
		},
		{
			name:      "marathi accepted",
			mutate:    func(r *StatusRequest) { r.Language = LanguageMarathi },
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			result := ValidateRequest(req)
			if result.Valid() != tt.wantValid {
				t.Fatalf("Valid() = %v, want %v (errors: %v)", result.Valid(), tt.wantValid, result.Errors)
			}
			if tt.wantError != "" && !containsError(result.Errors, tt.wantError) {
				t.Errorf("errors = %v, want to contain %q", result.Errors, tt.wantError)
			}
		})
	}
}

func TestValidateRequestNil(t *testing.T) {
	result := ValidateRequest(nil)
	if result.Valid() {
		t.Fatal("nil request must not validate")
	}
}

func TestValidateRequestAccumulatesAllViolations(t *testing.T) {
	result := ValidateRequest(&StatusRequest{})
	if len(result.Errors) != 4 {
		t.Errorf("got %d violations, want 4: %v", len(result.Errors), result.Errors)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*StatusResponse)
		wantValid bool
		wantError string
	}{
		{
			name:      "valid response",
			mutate:    func(r *StatusResponse) {},
			wantValid: true,
		},
		{
			name:      "missing application id",
			mutate:    func(r *StatusResponse) { r.ApplicationID = "" },
			wantError: "ApplicationID is required",
		},
		{
			name:      "missing service name",
			mutate:    func(r *StatusResponse) { r.ServiceName = "" },
			wantError: "ServiceName is required",
		},
		{
			name:      "missing applicant name",
			mutate:    func(r *StatusResponse) { r.ApplicantName = "" },
			wantError: "ApplicantName is required",
		},
		{
			name:      "undecided decision allowed",
			mutate:    func(r *StatusResponse) { r.FinalDecision = "" },
			wantValid: true,
		},
		{
			name:      "out-of-range decision",
			mutate:    func(r *StatusResponse) { r.FinalDecision = "3" },
			wantError: "FinalDecision must be '0', '1', '2', or empty string",
		},
		{
			name:      "decision word rejected",
			mutate:    func(r *StatusResponse) { r.FinalDecision = "approved" },
			wantError: "FinalDecision must be '0', '1', '2', or empty string",
		},
		{
			name:      "iso date rejected",
			mutate:    func(r *StatusResponse) { r.ApplicationSubmissionDate = "2025-09-18 17:30:00" },
			wantError: "ApplicationSubmissionDate must be in format DD-MMM-YYYY,HH:mm:ss",
		},
		{
			name:      "space instead of comma rejected",
			mutate:    func(r *StatusResponse) { r.ApplicationSubmissionDate = "18-Sep-2025 17:30:00" },
			wantError: "ApplicationSubmissionDate must be in format DD-MMM-YYYY,HH:mm:ss",
		},
		{
			name:      "empty payment date allowed",
			mutate:    func(r *StatusResponse) { r.ApplicationPaymentDate = "" },
			wantValid: true,
		},
		{
			name:      "bad desk review date",
			mutate:    func(r *StatusResponse) { r.DeskDetails[0].ReviewActionDateTime = "yesterday" },
			wantError: "DeskDetails[0].ReviewActionDateTime must be in format DD-MMM-YYYY,HH:mm:ss",
		},
		{
			name: "desks out of order",
			mutate: func(r *StatusResponse) {
				r.DeskDetails = []DeskDetail{{DeskNumber: "Desk 2"}, {DeskNumber: "Desk 1"}}
			},
			wantError: "DeskDetails must be ordered ascending by desk number",
		},
		{
			name: "numeric desk order beats lexical",
			mutate: func(r *StatusResponse) {
				r.DeskDetails = []DeskDetail{{DeskNumber: "Desk 2"}, {DeskNumber: "Desk 10"}}
			},
			wantValid: true,
		},
		{
			name: "duplicate desk numbers allowed",
			mutate: func(r *StatusResponse) {
				r.DeskDetails = []DeskDetail{{DeskNumber: "Desk 1"}, {DeskNumber: "Desk 1"}}
			},
			wantValid: true,
		},
		{
			name:      "no desks allowed",
			mutate:    func(r *StatusResponse) { r.DeskDetails = nil },
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := validResponse()
			tt.mutate(resp)

			result := ValidateResponse(resp)
			if result.Valid() != tt.wantValid {
				t.Fatalf("Valid() = %v, want %v (errors: %v)", result.Valid(), tt.wantValid, result.Errors)
			}
			if tt.wantError != "" && !containsError(result.Errors, tt.wantError) {
				t.Errorf("errors = %v, want to contain %q", result.Errors, tt.wantError)
			}
		})
	}
}

func TestDeskLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Desk 1", "Desk 2", true},
		{"Desk 2", "Desk 1", false},
		{"Desk 2", "Desk 10", true},
		{"Desk 10", "Desk 2", false},
		{"Desk 1", "Desk 1", false},
		{"Alpha", "Beta", true},
		{"Beta", "Alpha", false},
	}

	for _, tt := range tests {
		if got := deskLess(tt.a, tt.b); got != tt.want {
			t.Errorf("deskLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func containsError(errors []string, want string) bool {
	for _, e := range errors {
		if strings.Contains(e, want) {
			return true
		}
	}
	return false
}
