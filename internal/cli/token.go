package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
	"github.com/mahaseva-integrations/trackapi/internal/legacy"
)

// tokenCmd produces an encrypted push-authentication token, for exercising a
// department server's /legacy/pushauth endpoint during integration testing.
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Generate an encrypted push-authentication token",
	Long: `Seal and encrypt a portal push-authentication token.

The token carries a CRC-32 checksum computed with the shared checksum key and
is printed hex-encoded, ready to pass as the token query parameter.

Example:
  trackctl token user001 --auth-token Bearer-xyz`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

var (
	tokenSessionID string
	tokenAuth      string
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSessionID, "session-id", "", "Session ID (defaults to a generated UUID)")
	tokenCmd.Flags().StringVar(&tokenAuth, "auth-token", "", "Authorization token to embed (required)")
	tokenCmd.MarkFlagRequired("auth-token")
}

func runToken(cmd *cobra.Command, args []string) error {
	if cfg.ChecksumKey == "" {
		return fmt.Errorf("CHECKSUM_KEY must be set to seal a token")
	}

	codec, err := crypto.NewCodec(cfg.EncryptionKey, cfg.EncryptionIV)
	if err != nil {
		return err
	}

	sessionID := tokenSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	token := legacy.SealPushToken(&legacy.PushToken{
		UserID:             args[0],
		TimeStamp:          time.Now().Format("20060102150405"),
		SessionID:          sessionID,
		AuthorizationToken: tokenAuth,
	}, cfg.ChecksumKey)

	encrypted, err := codec.Encrypt(token.Encode())
	if err != nil {
		return err
	}

	fmt.Println(encrypted)
	return nil
}
