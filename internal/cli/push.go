package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mahaseva-integrations/trackapi/internal/legacy"
)

// pushCmd exercises the department-role side of the legacy status-push flow:
// seal a pipe-delimited payload with the shared checksum key and submit it
// encrypted to the portal.
var pushCmd = &cobra.Command{
	Use:   "push <endpoint>",
	Short: "Push a legacy status update to the portal",
	Long: `Build, seal and submit a legacy pipe-delimited status update.

The payload fields are supplied via flags; a fresh TrackID is generated for
every invocation. CHECKSUM_KEY must be set in the environment.

Example:
  trackctl push api/pull/updatestatus --client-code MAHA01 --application-id MH2025001234 \
    --service-id SVC042 --application-status APPROVED --request-flag A`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

var pushPayload legacy.PullPayload

func init() {
	rootCmd.AddCommand(pushCmd)

	flags := pushCmd.Flags()
	flags.StringVar(&pushPayload.ClientCode, "client-code", "", "Portal-assigned client code (required)")
	flags.StringVar(&pushPayload.UserID, "user-id", "", "Portal user ID")
	flags.StringVar(&pushPayload.ServiceID, "service-id", "", "Service code (required)")
	flags.StringVar(&pushPayload.ApplicationID, "application-id", "", "Application ID (required)")
	flags.StringVar(&pushPayload.PaymentStatus, "payment-status", "", "Payment status")
	flags.StringVar(&pushPayload.PaymentDate, "payment-date", "", "Payment date")
	flags.StringVar(&pushPayload.DigitalSignStatus, "digital-sign-status", "", "Digital signature status")
	flags.StringVar(&pushPayload.DigitalSignDate, "digital-sign-date", "", "Digital signature date")
	flags.StringVar(&pushPayload.EstimatedServiceDays, "estimated-days", "", "Estimated service days")
	flags.StringVar(&pushPayload.EstimatedServiceDate, "estimated-date", "", "Estimated service date")
	flags.StringVar(&pushPayload.Amount, "amount", "", "Fee amount")
	flags.StringVar(&pushPayload.RequestFlag, "request-flag", "", "Request flag")
	flags.StringVar(&pushPayload.ApplicationStatus, "application-status", "", "Application status (required)")
	flags.StringVar(&pushPayload.Remark, "remark", "", "Free-text remark")
	flags.StringVar(&pushPayload.UD1, "ud1", "", "User-defined field 1")
	flags.StringVar(&pushPayload.UD2, "ud2", "", "User-defined field 2")
	flags.StringVar(&pushPayload.UD3, "ud3", "", "User-defined field 3")
	flags.StringVar(&pushPayload.UD4, "ud4", "", "User-defined field 4")
	flags.StringVar(&pushPayload.UD5, "ud5", "", "User-defined field 5")

	pushCmd.MarkFlagRequired("client-code")
	pushCmd.MarkFlagRequired("service-id")
	pushCmd.MarkFlagRequired("application-id")
	pushCmd.MarkFlagRequired("application-status")
}

func runPush(cmd *cobra.Command, args []string) error {
	if cfg.ChecksumKey == "" {
		return fmt.Errorf("CHECKSUM_KEY must be set to seal a status update")
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	payload := pushPayload
	payload.TrackID = legacy.NewPullPayload().TrackID

	sealed, err := payload.Seal(cfg.ChecksumKey)
	if err != nil {
		return err
	}

	appLogger.Info("pushing status update",
		slog.String("track_id", payload.TrackID),
		slog.String("application_id", payload.ApplicationID),
	)

	if err := client.PushStatusUpdate(cmd.Context(), args[0], sealed); err != nil {
		return err
	}

	fmt.Printf("status update accepted (track id %s)\n", payload.TrackID)
	return nil
}
