package track

// validate.go implements the structural and semantic checks over the wire
// model. Both validators accumulate every violation instead of stopping at
// the first, so a counterpart integrating against a department gets the full
// diagnostic list in one round trip.

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationResult holds the accumulated violations of a validation pass.
type ValidationResult struct {
	Errors []string
}

// Valid reports whether the validated value passed every check.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a violation to the result.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// ValidateRequest checks a status request for the mandatory fields and the
// language enumeration. It does not mutate the request.
func ValidateRequest(req *StatusRequest) *ValidationResult {
	result := &ValidationResult{}

	if req == nil {
		result.AddError("Request cannot be nil")
		return result
	}

	if strings.TrimSpace(req.AppID) == "" {
		result.AddError("AppID is required")
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		result.AddError("ServiceID is required")
	}
	if strings.TrimSpace(req.DeptName) == "" {
		result.AddError("DeptName is required")
	}

	if strings.TrimSpace(req.Language) == "" {
		result.AddError("Language is required")
	} else if req.Language != LanguageEnglish && req.Language != LanguageMarathi {
		result.AddError("Language must be 'EN' or 'MR'")
	}

	return result
}

// ValidateResponse checks a status response before it is sent: mandatory
// fields, the FinalDecision enumeration, strict date formats on every
// populated date field, and non-decreasing desk order. It does not mutate
// the response.
func ValidateResponse(resp *StatusResponse) *ValidationResult {
	result := &ValidationResult{}

	if resp == nil {
		result.AddError("Response cannot be nil")
		return result
	}

	if strings.TrimSpace(resp.ApplicationID) == "" {
		result.AddError("ApplicationID is required")
	}
	if strings.TrimSpace(resp.ServiceName) == "" {
		result.AddError("ServiceName is required")
	}
	if strings.TrimSpace(resp.ApplicantName) == "" {
		result.AddError("ApplicantName is required")
	}

	switch resp.FinalDecision {
	case "0", "1", "2", "":
	default:
		result.AddError("FinalDecision must be '0', '1', '2', or empty string")
	}

	validateDateField(result, "ApplicationSubmissionDate", resp.ApplicationSubmissionDate)
	validateDateField(result, "ApplicationPaymentDate", resp.ApplicationPaymentDate)

	for i, desk := range resp.DeskDetails {
		validateDateField(result, fmt.Sprintf("DeskDetails[%d].ReviewActionDateTime", i), desk.ReviewActionDateTime)
	}

	validateDeskOrder(result, resp.DeskDetails)

	return result
}

// validateDateField checks a populated date field against the fixed pattern.
// Empty values are allowed everywhere.
func validateDateField(result *ValidationResult, field string, value string) {
	if value == "" {
		return
	}
	if _, err := ParseDate(value); err != nil {
		result.AddError(fmt.Sprintf("%s must be in format DD-MMM-YYYY,HH:mm:ss", field))
	}
}

// validateDeskOrder checks that DeskDetails is non-decreasing by desk number.
//
// Desk labels are free-form strings ("Desk 1"), so the comparator extracts
// the trailing integer of each label and compares numerically; labels without
// a trailing integer fall back to a lexical comparison. The numeric rule wins
// whenever both labels carry one, so "Desk 10" sorts after "Desk 2".
func validateDeskOrder(result *ValidationResult, desks []DeskDetail) {
	for i := 1; i < len(desks); i++ {
		if deskLess(desks[i].DeskNumber, desks[i-1].DeskNumber) {
			result.AddError(fmt.Sprintf("DeskDetails must be ordered ascending by desk number: %q appears after %q",
				desks[i].DeskNumber, desks[i-1].DeskNumber))
		}
	}
}

// deskLess reports whether label a orders strictly before label b.
func deskLess(a, b string) bool {
	numA, okA := trailingNumber(a)
	numB, okB := trailingNumber(b)
	if okA && okB {
		return numA < numB
	}
	return a < b
}

// trailingNumber extracts the integer suffix of a desk label.
func trailingNumber(label string) (int, bool) {
	label = strings.TrimSpace(label)
	start := len(label)
	for start > 0 && label[start-1] >= '0' && label[start-1] <= '9' {
		start--
	}
	if start == len(label) {
		return 0, false
	}
	n, err := strconv.Atoi(label[start:])
	if err != nil {
		return 0, false
	}
	return n, true
}
