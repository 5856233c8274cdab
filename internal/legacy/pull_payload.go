package legacy

// pull_payload.go implements the department->portal status-push payload:
// 21 pipe-delimited fields sealed with a trailing CRC-32 checksum.

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mahaseva-integrations/trackapi/internal/crypto"
)

// pullPayloadFieldCount is the fixed number of pipe-delimited fields,
// including the trailing checksum.
const pullPayloadFieldCount = 21

// PullPayload is a department->portal status update. Wire order:
//
//	TrackID|ClientCode|UserID|ServiceID|ApplicationID|PaymentStatus|
//	PaymentDate|DigitalSignStatus|DigitalSignDate|EstimatedServiceDays|
//	EstimatedServiceDate|Amount|RequestFlag|ApplicationStatus|Remark|
//	UD1|UD2|UD3|UD4|UD5|Checksum
//
// UD1-UD5 are user-defined passthrough fields, carried verbatim.
type PullPayload struct {
	TrackID              string
	ClientCode           string
	UserID               string
	ServiceID            string
	ApplicationID        string
	PaymentStatus        string
	PaymentDate          string
	DigitalSignStatus    string
	DigitalSignDate      string
	EstimatedServiceDays string
	EstimatedServiceDate string
	Amount               string
	RequestFlag          string
	ApplicationStatus    string
	Remark               string
	UD1                  string
	UD2                  string
	UD3                  string
	UD4                  string
	UD5                  string
	Checksum             string
}

// NewPullPayload returns a payload with a generated TrackID. All other
// fields are filled in by the caller before sealing.
func NewPullPayload() *PullPayload {
	return &PullPayload{TrackID: uuid.NewString()}
}

// dataFields returns the 20 non-checksum fields in wire order.
func (p *PullPayload) dataFields() []string {
	return []string{
		p.TrackID, p.ClientCode, p.UserID, p.ServiceID, p.ApplicationID,
		p.PaymentStatus, p.PaymentDate, p.DigitalSignStatus, p.DigitalSignDate,
		p.EstimatedServiceDays, p.EstimatedServiceDate, p.Amount,
		p.RequestFlag, p.ApplicationStatus, p.Remark,
		p.UD1, p.UD2, p.UD3, p.UD4, p.UD5,
	}
}

// checksumInput joins the data fields plus the shared key, the exact string
// both sides compute the checksum over.
func (p *PullPayload) checksumInput(checksumKey string) string {
	return strings.Join(p.dataFields(), "|") + "|" + checksumKey
}

// Seal computes the checksum and returns the complete wire string.
// Fields must not contain the pipe separator; that would shift every
// downstream field on the counterpart.
func (p *PullPayload) Seal(checksumKey string) (string, error) {
	for i, field := range p.dataFields() {
		if strings.Contains(field, "|") {
			return "", fmt.Errorf("pull payload field %d contains the pipe separator: %q", i, field)
		}
	}
	p.Checksum = crypto.ChecksumString(p.checksumInput(checksumKey))
	return strings.Join(append(p.dataFields(), p.Checksum), "|"), nil
}

// ParsePullPayload splits a decrypted wire string into its 21 fields.
func ParsePullPayload(decrypted string) (*PullPayload, error) {
	fields := strings.Split(decrypted, "|")
	if len(fields) != pullPayloadFieldCount {
		return nil, crypto.NewChecksumError(fmt.Sprintf("pull payload must have %d fields, got %d", pullPayloadFieldCount, len(fields)))
	}
	return &PullPayload{
		TrackID:              fields[0],
		ClientCode:           fields[1],
		UserID:               fields[2],
		ServiceID:            fields[3],
		ApplicationID:        fields[4],
		PaymentStatus:        fields[5],
		PaymentDate:          fields[6],
		DigitalSignStatus:    fields[7],
		DigitalSignDate:      fields[8],
		EstimatedServiceDays: fields[9],
		EstimatedServiceDate: fields[10],
		Amount:               fields[11],
		RequestFlag:          fields[12],
		ApplicationStatus:    fields[13],
		Remark:               fields[14],
		UD1:                  fields[15],
		UD2:                  fields[16],
		UD3:                  fields[17],
		UD4:                  fields[18],
		UD5:                  fields[19],
		Checksum:             fields[20],
	}, nil
}

// Verify recomputes the checksum over the data fields plus the shared key
// and compares it against the embedded trailing checksum. Must be called
// before any business processing of the payload.
func (p *PullPayload) Verify(checksumKey string) error {
	if !crypto.VerifyChecksum(p.checksumInput(checksumKey), p.Checksum) {
		return crypto.NewChecksumError("pull payload checksum mismatch")
	}
	return nil
}
