package cli

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/mahaseva-integrations/trackapi/internal/crypto"
)

// keygenCmd generates fresh shared key material. The protocol uses the raw
// UTF-8 bytes of the configured strings as key material, so the output is
// restricted to printable characters that survive every env-file format.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate shared key material",
	Long: `Generate a random encryption key, IV and checksum key.

The values are printed in env-file form. Both sides of the integration must be
configured with identical values.

Example:
  trackctl keygen >> .env`,
	Args: cobra.NoArgs,
	RunE: runKeygen,
	// key generation needs no client configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

const keyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func randomString(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(keyCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		out[i] = keyCharset[n.Int64()]
	}
	return string(out), nil
}

func runKeygen(cmd *cobra.Command, args []string) error {
	key, err := randomString(crypto.KeySize)
	if err != nil {
		return err
	}
	iv, err := randomString(crypto.BlockSize)
	if err != nil {
		return err
	}
	checksumKey, err := randomString(32)
	if err != nil {
		return err
	}

	fmt.Printf("ENCRYPTION_KEY=%s\n", key)
	fmt.Printf("ENCRYPTION_IV=%s\n", iv)
	fmt.Printf("CHECKSUM_KEY=%s\n", checksumKey)
	return nil
}
