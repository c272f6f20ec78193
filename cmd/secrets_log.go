package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PolarWolf314/cofre/internal/audit"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/PolarWolf314/cofre/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit      int
	logReverse    bool
	logUser       string
	logIdentifier string
	logOperation  string
	logSince      string
	logUntil      string
	logJSON       bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by local user name")
	logCmd.Flags().StringVar(&logIdentifier, "identifier", "", "filter by record identifier")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logUser = ""
	logIdentifier = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log kept in the store directory.

Shows who encrypted, decrypted or cleaned the store and when. Use filters to
narrow down the results.

Examples:
  cofre secrets log                              # View full log
  cofre secrets log -n 10                        # Last 10 entries
  cofre secrets log --reverse                    # Most recent first
  cofre secrets log --operation encrypt,decrypt  # Filter by operation
  cofre secrets log --since 2024-01-01           # Filter by date
  cofre secrets log --json                       # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	config, err := loadSecretsConfig()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
	}
	storePath, err := config.StoreDir()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to resolve store directory: %v", err)
	}

	spinner, cleanup := startSpinner("Loading audit log...", verbose)
	defer cleanup()

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		StoreDir:   storePath,
		Limit:      logLimit,
		Reverse:    logReverse,
		User:       logUser,
		Identifier: logIdentifier,
		Operations: logOperation,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		spinner.FinalMSG = formatLogError(err)
		if isLogUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			spinner.FinalMSG = "No audit log entries found."
		} else {
			spinner.FinalMSG = "No audit log entries found matching the filters."
		}
		return nil
	}

	// Stop the spinner before printing the table.
	cleanup()

	if logJSON {
		return outputLogJSON(result.Entries)
	}

	outputLogDefault(result.Entries)
	return nil
}

// formatLogError formats a log error for display to the user.
func formatLogError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrAuditLogNotFound):
		return ui.Info.Sprint("ℹ") + " No audit log found. Operations will be logged after running any secrets command."

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to read audit log: " + err.Error()
	}
}

// isLogUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isLogUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrAuditLogNotFound),
		errors.Is(err, kerrors.ErrInvalidDateFormat):
		return false
	default:
		return true
	}
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%-19s  %-16s  %-8s  %s\n", formatLogTime(e.Timestamp), e.User, e.Operation, formatLogDetails(e))
	}
}

func formatLogTime(ts string) string {
	t, err := audit.ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatLogDetails(e audit.Entry) string {
	var parts []string
	if e.Identifier != "" {
		parts = append(parts, e.Identifier)
	}
	if e.Hash != "" {
		parts = append(parts, fmt.Sprintf("pbkdf2-%s/%d", e.Hash, e.Iterations))
	}
	if e.RemovedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d file(s) removed", e.RemovedCount))
	}
	if e.RecordUUID != "" {
		parts = append(parts, ui.Muted.Sprint(ui.Preview(e.RecordUUID, 8)))
	}
	return strings.Join(parts, " ")
}
