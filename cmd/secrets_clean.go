package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/PolarWolf314/cofre/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	cleanForce  bool
	cleanDryRun bool
)

func init() {
	cleanCmd.Flags().BoolVar(&cleanForce, "force", false, "skip confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "show what would be removed without making changes")
}

func resetCleanCommandState() {
	cleanForce = false
	cleanDryRun = false
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove IV and parameter files left behind by older records",
	Long: `Removes *_chaveEIV.txt and *.kdf.toml files whose identifier does not match
the current record. These are left behind when a record is replaced under a
different identifier with 'cofre secrets encrypt --force'.

Nothing is removed if the record file cannot be read.

Use --dry-run to preview what would be removed.
Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clean command")

		config, err := loadSecretsConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}
		storePath, err := config.StoreDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve store directory: %v", err)
		}

		opts := workflows.CleanOptions{
			StoreDir:   storePath,
			RecordFile: config.Store.RecordFile,
			DryRun:     true,
		}

		preview, err := workflows.Clean(context.Background(), opts)
		if err != nil {
			return reportSecretsError(err)
		}

		if len(preview.Orphans) == 0 {
			fmt.Println(ui.Success.Sprint("✓") + " No leftover files found. Nothing to clean.")
			return nil
		}

		if cleanDryRun {
			fmt.Printf("[dry-run] Would remove %d file(s):\n", len(preview.Orphans))
		} else {
			fmt.Printf("Found %d leftover file(s):\n\n", len(preview.Orphans))
		}
		printOrphanTable(preview.Orphans)

		if cleanDryRun {
			fmt.Println("\nNo changes made.")
			return nil
		}

		if !cleanForce {
			fmt.Println("\nThis will permanently delete the files listed above.")
			fmt.Println()
			if !confirmCleanAction() {
				fmt.Println("Aborted.")
				return nil
			}
		}

		opts.DryRun = false
		result, err := workflows.Clean(context.Background(), opts)
		if err != nil {
			return reportSecretsError(err)
		}

		fmt.Printf("%s Removed %d file(s)\n", ui.Success.Sprint("✓"), result.RemovedCount)
		return nil
	},
}

// printOrphanTable prints a formatted table of orphaned entries.
func printOrphanTable(orphans []workflows.OrphanEntry) {
	width := len("IDENTIFIER")
	for _, orphan := range orphans {
		if len(orphan.Identifier) > width {
			width = len(orphan.Identifier)
		}
	}

	fmt.Printf("  %-*s  %s\n", width, "IDENTIFIER", "FILE")
	for _, orphan := range orphans {
		fmt.Printf("  %-*s  %s\n", width, orphan.Identifier, orphan.RelativePath)
	}
}

// confirmCleanAction prompts the user to confirm the clean operation.
func confirmCleanAction() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil {
		Logger.Errorf("Failed to read response: %v", err)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
