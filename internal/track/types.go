package track

// types.go defines the wire model for the Track Application Status protocol.
// Field names and their JSON spellings are fixed by the V3 API contract and
// must not be changed: both sides deserialize by exact, case-sensitive name.

import (
	"math"
	"time"
)

// DateFormat is the fixed textual pattern for every date field on the wire:
// two-digit day, three-letter English month, four-digit year, a comma, and a
// 24-hour zero-padded time. No timezone offset is carried.
const DateFormat = "02-Jan-2006,15:04:05"

// Language codes accepted in a StatusRequest.
const (
	LanguageEnglish = "EN"
	LanguageMarathi = "MR"
)

// FinalDecision is the enumerated terminal outcome code of an application.
type FinalDecision string

const (
	DecisionApproved  FinalDecision = "0"
	DecisionRejected  FinalDecision = "1"
	DecisionPending   FinalDecision = "2"
	DecisionUndecided FinalDecision = ""
)

// Envelope is the outer JSON wrapper carried in both directions:
// a single "data" property holding the hex-encoded ciphertext.
type Envelope struct {
	Data string `json:"data"`
}

// StatusRequest is the decrypted inner request body of a status inquiry.
// All four fields are mandatory and non-blank.
type StatusRequest struct {
	// AppID is the application identifier assigned when the citizen applied.
	AppID string `json:"AppID"`

	// ServiceID is the department-assigned service code.
	ServiceID string `json:"ServiceID"`

	// DeptName is the department the application was submitted to.
	DeptName string `json:"DeptName"`

	// Language selects the response language: "EN" or "MR".
	Language string `json:"Language"`
}

// StatusResponse is the decrypted inner response body.
//
// Every optional field is represented as an empty string at the wire
// boundary - "not applicable" and "not yet available" are deliberately
// conflated into the one sentinel by the protocol and are not distinguished
// internally either.
type StatusResponse struct {
	// ApplicationID echoes the AppID of the request.
	ApplicationID string `json:"ApplicationID"`

	// ServiceName is the service name localized per the requested language.
	ServiceName string `json:"ServiceName"`

	ApplicantName string `json:"ApplicantName"`

	// EstimatedDisbursalDays is the expected number of days to disbursal.
	EstimatedDisbursalDays int `json:"EstimatedDisbursalDays"`

	// ApplicationSubmissionDate in DateFormat, or empty.
	ApplicationSubmissionDate string `json:"ApplicationSubmissionDate"`

	// ApplicationPaymentDate in DateFormat, or empty if unpaid.
	ApplicationPaymentDate string `json:"ApplicationPaymentDate"`

	// NextActionRequiredDetails describes any action required from the
	// applicant, empty if none.
	NextActionRequiredDetails string `json:"NextActionRequiredDetails"`

	// FinalDecision is "0" (approved), "1" (rejected), "2" (pending) or
	// empty while undecided.
	FinalDecision string `json:"FinalDecision"`

	// DepartmentRedirectionURL optionally points the citizen at the
	// department's own tracking page.
	DepartmentRedirectionURL string `json:"DepartmentRedirectionURL"`

	// TotalNumberOfDesks is the number of review desks in the workflow.
	TotalNumberOfDesks int `json:"TotalNumberOfDesks"`

	// CurrentDeskNumber is the desk currently holding the application,
	// 0 when unassigned.
	CurrentDeskNumber int `json:"CurrentDeskNumber"`

	// NextDeskNumber is the desk the application moves to next, 0 when the
	// current desk is final.
	NextDeskNumber int `json:"NextDeskNumber"`

	// DeskDetails lists the review history, ascending by desk number.
	DeskDetails []DeskDetail `json:"DeskDetails"`
}

// DeskDetail records one review desk's action on the application.
type DeskDetail struct {
	// DeskNumber is a display label, e.g. "Desk 1".
	DeskNumber string `json:"DeskNumber"`

	// ReviewActionBy names the reviewer, empty if unassigned.
	ReviewActionBy string `json:"ReviewActionBy"`

	// ReviewActionDateTime in DateFormat, or empty.
	ReviewActionDateTime string `json:"ReviewActionDateTime"`

	ReviewActionDetails string `json:"ReviewActionDetails"`
}

// ErrorBody is the unencrypted failure response sent in both directions.
type ErrorBody struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// FormatDate renders t in the protocol date format.
// The zero time renders as the empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

// ParseDate parses a protocol date string. Empty input returns the zero time
// with no error; anything else must match DateFormat exactly.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateFormat, s)
}

// IsPaid reports whether a payment date has been recorded.
func (r *StatusResponse) IsPaid() bool {
	return r.ApplicationPaymentDate != ""
}

// IsActionRequired reports whether the applicant has a pending action.
func (r *StatusResponse) IsActionRequired() bool {
	return r.NextActionRequiredDetails != ""
}

// IsFinalDecisionMade reports whether a terminal decision has been recorded.
func (r *StatusResponse) IsFinalDecisionMade() bool {
	return r.FinalDecision != ""
}

// Decision returns the typed view of the FinalDecision field.
// Codes outside the enumeration map to DecisionUndecided; the validator
// rejects such responses before they reach the wire.
func (r *StatusResponse) Decision() FinalDecision {
	switch r.FinalDecision {
	case "0":
		return DecisionApproved
	case "1":
		return DecisionRejected
	case "2":
		return DecisionPending
	default:
		return DecisionUndecided
	}
}

// ProgressPercentage estimates review progress as the share of desks that
// have recorded an action, rounded to the nearest whole percent.
func (r *StatusResponse) ProgressPercentage() int {
	if r.TotalNumberOfDesks <= 0 {
		return 0
	}
	completed := len(r.DeskDetails)
	return int(math.Round(float64(completed) / float64(r.TotalNumberOfDesks) * 100))
}

// DecisionText returns a human-readable rendering of the final decision in
// the requested language. Undecided applications read as pending.
func DecisionText(decision FinalDecision, language string) string {
	marathi := language == LanguageMarathi

	switch decision {
	case DecisionApproved:
		if marathi {
			return "मंजूर"
		}
		return "Approved"
	case DecisionRejected:
		if marathi {
			return "नाकारले"
		}
		return "Rejected"
	default:
		if marathi {
			return "प्रलंबित"
		}
		return "Pending"
	}
}
