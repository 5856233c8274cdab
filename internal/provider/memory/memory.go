// memory implements a track.DataProvider backed by an in-process record set,
// optionally loaded from a JSON seed file. It serves demos, integration
// environments and the handler tests; production departments plug in their
// own provider (see provider/postgres for a database-backed reference).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mahaseva-integrations/trackapi/internal/track"
)

// Application is one seeded application record. Service names are held in
// both languages so the provider can localize per request.
type Application struct {
	ApplicationID          string             `json:"applicationId"`
	ServiceID              string             `json:"serviceId"`
	ServiceNameEN          string             `json:"serviceNameEn"`
	ServiceNameMR          string             `json:"serviceNameMr"`
	ApplicantName          string             `json:"applicantName"`
	EstimatedDisbursalDays int                `json:"estimatedDisbursalDays"`
	SubmissionDate         string             `json:"submissionDate"`
	PaymentDate            string             `json:"paymentDate"`
	NextActionDetails      string             `json:"nextActionDetails"`
	FinalDecision          string             `json:"finalDecision"`
	RedirectionURL         string             `json:"redirectionUrl"`
	TotalDesks             int                `json:"totalDesks"`
	CurrentDesk            int                `json:"currentDesk"`
	NextDesk               int                `json:"nextDesk"`
	Desks                  []track.DeskDetail `json:"desks"`
}

// Provider is an immutable in-memory record set. Safe for concurrent use.
type Provider struct {
	records map[string]Application
}

// NewProvider builds a provider from a record slice, keyed by application ID.
func NewProvider(records []Application) *Provider {
	byID := make(map[string]Application, len(records))
	for _, rec := range records {
		byID[rec.ApplicationID] = rec
	}
	return &Provider{records: byID}
}

// LoadSeedFile reads a JSON array of Application records from path.
func LoadSeedFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []Application
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return NewProvider(records), nil
}

// GetApplicationStatus implements track.DataProvider.
func (p *Provider) GetApplicationStatus(ctx context.Context, applicationID string, serviceID string, departmentName string, language string) (*track.StatusResponse, error) {
	rec, ok := p.records[applicationID]
	if !ok || rec.ServiceID != serviceID {
		return nil, track.NewNotFoundError("")
	}

	serviceName := rec.ServiceNameEN
	if language == track.LanguageMarathi && rec.ServiceNameMR != "" {
		serviceName = rec.ServiceNameMR
	}

	return &track.StatusResponse{
		ApplicationID:             rec.ApplicationID,
		ServiceName:               serviceName,
		ApplicantName:             rec.ApplicantName,
		EstimatedDisbursalDays:    rec.EstimatedDisbursalDays,
		ApplicationSubmissionDate: rec.SubmissionDate,
		ApplicationPaymentDate:    rec.PaymentDate,
		NextActionRequiredDetails: rec.NextActionDetails,
		FinalDecision:             rec.FinalDecision,
		DepartmentRedirectionURL:  rec.RedirectionURL,
		TotalNumberOfDesks:        rec.TotalDesks,
		CurrentDeskNumber:         rec.CurrentDesk,
		NextDeskNumber:            rec.NextDesk,
		DeskDetails:               rec.Desks,
	}, nil
}
