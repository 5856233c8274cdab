// cli implements the trackctl commands: the portal-role client used to query
// department servers, push legacy status updates and exercise the
// authentication handshake from the command line.
package cli

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahaseva-integrations/trackapi/internal/config"
	"github.com/mahaseva-integrations/trackapi/internal/logger"
	"github.com/mahaseva-integrations/trackapi/internal/track"
	"github.com/mahaseva-integrations/trackapi/internal/version"
)

var (
	cfg       *config.ClientEnvironment
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "trackctl",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Track Application Status portal-role CLI",
	Long:              `trackctl queries department servers for encrypted application status and exercises the legacy status-push and authentication flows`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewClientConfig()
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		if cfg.EnableLogging {
			appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), "dev")
		} else {
			appLogger = logger.NewDiscardLogger()
		}
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds a protocol client from the loaded environment.
func newClient() (*track.Client, error) {
	return track.NewClient(track.ClientConfig{
		BaseURL:        cfg.BaseURL,
		APIEndpoint:    cfg.APIEndpoint,
		EncryptionKey:  cfg.EncryptionKey,
		EncryptionIV:   cfg.EncryptionIV,
		DepartmentName: cfg.DepartmentName,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
		Logger:         appLogger,
	})
}
