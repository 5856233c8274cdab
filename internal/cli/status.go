package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mahaseva-integrations/trackapi/internal/track"
)

var statusCmd = &cobra.Command{
	Use:   "status <application-id> <service-id>",
	Short: "Fetch the status of an application",
	Long: `Query the department server for the current status of an application.

The request is encrypted with the shared key material from the environment and
the decrypted answer is printed as a human-readable summary (or raw JSON with
--json).

Example:
  trackctl status MH2025001234 SVC042 --language MR`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

var (
	statusLanguage string
	statusJSON     bool
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusLanguage, "language", track.LanguageEnglish, "Response language: EN or MR")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the decrypted response as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	appLogger.Info("fetching application status",
		slog.String("application_id", args[0]),
		slog.String("service_id", args[1]),
	)

	resp, err := client.FetchStatusWithLanguage(cmd.Context(), args[0], args[1], statusLanguage)
	if err != nil {
		return err
	}

	if statusJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printStatusSummary(resp, statusLanguage)
	return nil
}

func printStatusSummary(resp *track.StatusResponse, language string) {
	w := os.Stdout

	fmt.Fprintf(w, "Application:  %s\n", resp.ApplicationID)
	fmt.Fprintf(w, "Service:      %s\n", resp.ServiceName)
	fmt.Fprintf(w, "Applicant:    %s\n", resp.ApplicantName)
	fmt.Fprintf(w, "Submitted:    %s\n", orDash(resp.ApplicationSubmissionDate))
	if resp.IsPaid() {
		fmt.Fprintf(w, "Paid:         %s\n", resp.ApplicationPaymentDate)
	} else {
		fmt.Fprintf(w, "Paid:         no\n")
	}
	fmt.Fprintf(w, "Decision:     %s\n", track.DecisionText(resp.Decision(), language))
	fmt.Fprintf(w, "Progress:     %d%% (desk %d of %d)\n",
		resp.ProgressPercentage(), resp.CurrentDeskNumber, resp.TotalNumberOfDesks)

	if resp.IsActionRequired() {
		fmt.Fprintf(w, "Action:       %s\n", resp.NextActionRequiredDetails)
	}
	if resp.DepartmentRedirectionURL != "" {
		fmt.Fprintf(w, "Details:      %s\n", resp.DepartmentRedirectionURL)
	}

	if len(resp.DeskDetails) > 0 {
		fmt.Fprintf(w, "\nReview history:\n")
		for _, desk := range resp.DeskDetails {
			line := []string{desk.DeskNumber}
			if desk.ReviewActionBy != "" {
				line = append(line, desk.ReviewActionBy)
			}
			if desk.ReviewActionDateTime != "" {
				line = append(line, desk.ReviewActionDateTime)
			}
			if desk.ReviewActionDetails != "" {
				line = append(line, desk.ReviewActionDetails)
			}
			fmt.Fprintf(w, "  %s\n", strings.Join(line, " - "))
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
