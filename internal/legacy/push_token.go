package legacy

// push_token.go implements the portal->department authentication handshake
// token carried (encrypted) on the query string.

import (
	"fmt"
	"strings"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
)

// pushTokenFieldCount is the fixed number of pipe-delimited token fields.
const pushTokenFieldCount = 5

// PushToken is the decrypted portal->department authentication token.
// Wire order: UserID|TimeStamp|SessionID|ClientChecksum|AuthorizationToken.
type PushToken struct {
	UserID             string
	TimeStamp          string
	SessionID          string
	ClientChecksum     string
	AuthorizationToken string
}

// ParsePushToken splits a decrypted token string into its five fields.
func ParsePushToken(decrypted string) (*PushToken, error) {
	fields := strings.Split(decrypted, "|")
	if len(fields) != pushTokenFieldCount {
		return nil, crypto.NewChecksumError(fmt.Sprintf("push token must have %d fields, got %d", pushTokenFieldCount, len(fields)))
	}
	return &PushToken{
		UserID:             fields[0],
		TimeStamp:          fields[1],
		SessionID:          fields[2],
		ClientChecksum:     fields[3],
		AuthorizationToken: fields[4],
	}, nil
}

// checksumInput rebuilds the string the checksum is computed over: the token
// fields in wire order with the shared checksum key substituted at the
// checksum field position.
//
// NOTE: the two deployed reference implementations disagree on whether the
// key or the literal field name is substituted here; this variant (key
// substitution) must be verified live against the actual counterpart before
// go-live. See DESIGN.md.
func (t *PushToken) checksumInput(checksumKey string) string {
	return strings.Join([]string{t.UserID, t.TimeStamp, t.SessionID, checksumKey, t.AuthorizationToken}, "|")
}

// Verify recomputes the checksum with the shared key and compares it to the
// embedded ClientChecksum. A mismatch means the token was forged or
// corrupted and the request must be rejected as unauthenticated.
func (t *PushToken) Verify(checksumKey string) error {
	if !crypto.VerifyChecksum(t.checksumInput(checksumKey), t.ClientChecksum) {
		return crypto.NewChecksumError("push token checksum mismatch")
	}
	return nil
}

// SealPushToken computes and embeds the checksum for an outbound token
// (portal role; used in tests and the conformance client).
func SealPushToken(t *PushToken, checksumKey string) *PushToken {
	sealed := *t
	sealed.ClientChecksum = crypto.ChecksumString(t.checksumInput(checksumKey))
	return &sealed
}

// Encode joins the token fields in wire order.
func (t *PushToken) Encode() string {
	return strings.Join([]string{t.UserID, t.TimeStamp, t.SessionID, t.ClientChecksum, t.AuthorizationToken}, "|")
}
