// postgres implements a track.DataProvider backed by a pgx connection pool.
//
// The schema (see migrations/) is a reference layout for departments that do
// not already have one: an applications table joined to desk review rows.
// Departments with an existing case-management schema implement
// track.DataProvider against it directly instead.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahaseva-integrations/trackapi/internal/track"
)

// Provider looks up application records in PostgreSQL.
type Provider struct {
	pool *pgxpool.Pool
}

// NewProvider wraps an existing connection pool. The pool's lifecycle is
// owned by the caller.
func NewProvider(pool *pgxpool.Pool) *Provider {
	return &Provider{pool: pool}
}

const applicationQuery = `
SELECT service_name_en, service_name_mr, applicant_name,
       estimated_disbursal_days, submission_date, payment_date,
       next_action_details, final_decision, redirection_url,
       total_desks, current_desk, next_desk
FROM applications
WHERE application_id = $1 AND service_id = $2`

const deskQuery = `
SELECT desk_label, review_action_by, review_action_at, review_action_details
FROM desk_reviews
WHERE application_id = $1
ORDER BY desk_number`

// GetApplicationStatus implements track.DataProvider.
func (p *Provider) GetApplicationStatus(ctx context.Context, applicationID string, serviceID string, departmentName string, language string) (*track.StatusResponse, error) {
	var (
		serviceNameEN, serviceNameMR, applicantName string
		estimatedDays                               int
		submissionDate, paymentDate                 *time.Time
		nextAction, finalDecision, redirectionURL   *string
		totalDesks, currentDesk, nextDesk           int
	)

	err := p.pool.QueryRow(ctx, applicationQuery, applicationID, serviceID).Scan(
		&serviceNameEN, &serviceNameMR, &applicantName,
		&estimatedDays, &submissionDate, &paymentDate,
		&nextAction, &finalDecision, &redirectionURL,
		&totalDesks, &currentDesk, &nextDesk,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, track.NewNotFoundError("")
	}
	if err != nil {
		return nil, track.WrapProviderError(err, "application lookup failed")
	}

	desks, err := p.loadDeskReviews(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	serviceName := serviceNameEN
	if language == track.LanguageMarathi && serviceNameMR != "" {
		serviceName = serviceNameMR
	}

	// nullable columns collapse onto the protocol's empty-string sentinel here;
	// track.Normalize would do the same but the conversion belongs at the edge
	return &track.StatusResponse{
		ApplicationID:             applicationID,
		ServiceName:               serviceName,
		ApplicantName:             applicantName,
		EstimatedDisbursalDays:    estimatedDays,
		ApplicationSubmissionDate: formatNullableDate(submissionDate),
		ApplicationPaymentDate:    formatNullableDate(paymentDate),
		NextActionRequiredDetails: emptyIfNil(nextAction),
		FinalDecision:             emptyIfNil(finalDecision),
		DepartmentRedirectionURL:  emptyIfNil(redirectionURL),
		TotalNumberOfDesks:        totalDesks,
		CurrentDeskNumber:         currentDesk,
		NextDeskNumber:            nextDesk,
		DeskDetails:               desks,
	}, nil
}

// loadDeskReviews fetches the review history in ascending desk order.
func (p *Provider) loadDeskReviews(ctx context.Context, applicationID string) ([]track.DeskDetail, error) {
	rows, err := p.pool.Query(ctx, deskQuery, applicationID)
	if err != nil {
		return nil, track.WrapProviderError(err, "desk review lookup failed")
	}
	defer rows.Close()

	desks := []track.DeskDetail{}
	for rows.Next() {
		var (
			deskLabel     string
			reviewBy      *string
			reviewAt      *time.Time
			reviewDetails *string
		)
		if err := rows.Scan(&deskLabel, &reviewBy, &reviewAt, &reviewDetails); err != nil {
			return nil, track.WrapProviderError(err, "failed to scan desk review row")
		}
		desks = append(desks, track.DeskDetail{
			DeskNumber:           deskLabel,
			ReviewActionBy:       emptyIfNil(reviewBy),
			ReviewActionDateTime: formatNullableDate(reviewAt),
			ReviewActionDetails:  emptyIfNil(reviewDetails),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, track.WrapProviderError(err, "desk review iteration failed")
	}

	return desks, nil
}

func formatNullableDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return track.FormatDate(*t)
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ping verifies database connectivity at startup.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
